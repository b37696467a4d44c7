package extract

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// UnknownPublisher is used when a URL has no usable host.
const UnknownPublisher = "알 수 없음"

// registrable domain → outlet name
var knownPublishers = map[string]string{
	"chosun.com":       "조선일보",
	"joongang.co.kr":   "중앙일보",
	"joins.com":        "중앙일보",
	"donga.com":        "동아일보",
	"hani.co.kr":       "한겨레",
	"khan.co.kr":       "경향신문",
	"yna.co.kr":        "연합뉴스",
	"yonhapnews.co.kr": "연합뉴스",
	"kbs.co.kr":        "KBS",
	"imbc.com":         "MBC",
	"sbs.co.kr":        "SBS",
	"ytn.co.kr":        "YTN",
	"jtbc.co.kr":       "JTBC",
	"mk.co.kr":         "매일경제",
	"hankyung.com":     "한국경제",
	"seoul.co.kr":      "서울신문",
	"kmib.co.kr":       "국민일보",
	"hankookilbo.com":  "한국일보",
	"news1.kr":         "뉴스1",
	"newsis.com":       "뉴시스",
	"naver.com":        "네이버뉴스",
	"daum.net":         "다음뉴스",
}

// Publisher infers the outlet from an article URL: a known outlet name when
// the registrable domain is recognized, the registrable domain otherwise.
func Publisher(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return UnknownPublisher
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return UnknownPublisher
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return UnknownPublisher
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// bare suffixes and IPs
		return host
	}
	if name, ok := knownPublishers[domain]; ok {
		return name
	}
	return domain
}
