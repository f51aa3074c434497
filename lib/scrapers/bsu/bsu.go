// Package bsu scrapes the university's student portal: ASP.NET pages
// behind a captcha-guarded form login. The portal has no API, every
// piece of data comes out of server-rendered html.
package bsu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"firportal-backend/lib/ocr"
	"firportal-backend/lib/restyutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseUrl = "https://student.bsu.by"

var ErrLoginFailed = errors.New("the portal rejected the credentials or the captcha answer")

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	ocr     *ocr.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// solves the login captcha
	Ocr *ocr.Client
	// can be nil, in which case requests are not dumped anywhere
	InstrumentOutput restyutil.InstrumentOutput
}

func NewClient(options ClientOptions) (*Client, error) {
	rawUrl := options.BaseUrl
	if rawUrl == "" {
		rawUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(rawUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(rawUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("referer", rawUrl+"/login.aspx")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	restyutil.InstrumentClient(client, tracer, options.InstrumentOutput)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
		ocr:     options.Ocr,
	}, nil
}

// parseHiddenInputs collects the ASP.NET state fields (__VIEWSTATE and
// friends) the login form round-trips on every post.
func parseHiddenInputs(doc *goquery.Document) map[string]string {
	payload := map[string]string{}
	doc.Find("input[type=hidden]").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		payload[name] = input.AttrOr("value", "")
	})
	return payload
}

// Login performs the captcha-guarded form login. On success the
// portal's session cookies live in the client's jar, use Cookies to
// persist them.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	if c.ocr == nil {
		return fmt.Errorf("cannot login without a captcha solver")
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/login.aspx")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page html")
		return err
	}
	payload := parseHiddenInputs(doc)

	res, err = c.Http.R().
		SetContext(ctx).
		Get("/Captcha/CaptchaImage.aspx")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch captcha image")
		return err
	}
	captcha, err := c.ocr.Classify(ctx, res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to solve captcha")
		return err
	}

	payload["ctl00$ContentPlaceHolder0$txtUserLogin"] = username
	payload["ctl00$ContentPlaceHolder0$txtUserPassword"] = password
	payload["ctl00$ContentPlaceHolder0$txtCapture"] = captcha
	payload["ctl00$ContentPlaceHolder0$btnLogon"] = "Войти"

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(payload).
		Post("/login.aspx")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}

	// a logged-in page carries the logout control, the login page
	// itself never does
	if !strings.Contains(string(res.Body()), "Выход") {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return ErrLoginFailed
	}

	return nil
}

// Cookie is the portable form of one portal session cookie.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Cookies exports the portal session for storage.
func (c *Client) Cookies() []Cookie {
	var out []Cookie
	for _, cookie := range c.Http.GetClient().Jar.Cookies(c.BaseUrl) {
		out = append(out, Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	return out
}

// SetCookies restores a previously exported portal session.
func (c *Client) SetCookies(cookies []Cookie) {
	for _, cookie := range cookies {
		c.Http.SetCookie(&http.Cookie{
			Name:   cookie.Name,
			Value:  cookie.Value,
			Domain: c.BaseUrl.Hostname(),
			Path:   "/",
		})
	}
}
