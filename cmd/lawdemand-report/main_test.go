package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/lawdemand/pkg/lawdemand"
	"github.com/cognicore/lawdemand/pkg/lawdemand/metrics"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"naver", "youtube"}, splitList(" naver, ,youtube "))
	assert.Nil(t, splitList(""))
}

func TestPick(t *testing.T) {
	d := lawdemand.Dashboard{
		KPI:     metrics.KPIMetrics{KPIFigures: metrics.KPIFigures{TotalComments: 3}},
		Ranking: []metrics.LegalArticleRank{{ID: "law-a"}},
	}

	out, err := pick(d, "KPI")
	require.NoError(t, err)
	assert.Equal(t, d.KPI, out)

	out, err = pick(d, "ranking")
	require.NoError(t, err)
	assert.Equal(t, d.Ranking, out)

	out, err = pick(d, "")
	require.NoError(t, err)
	assert.Equal(t, d, out)

	_, err = pick(d, "charts")
	assert.Error(t, err)
}
