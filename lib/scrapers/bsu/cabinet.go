package bsu

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"firportal-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"desc"`
	Link        string `json:"link"`
}

// NewsPage is what the personal cabinet's news page yields: the
// student's full name sits in the page chrome, so it comes along for
// free.
type NewsPage struct {
	FullName string
	Items    []NewsItem
}

// FetchNews scrapes the cabinet's news feed.
func (c *Client) FetchNews(ctx context.Context) (NewsPage, error) {
	ctx, span := tracer.Start(ctx, "client:FetchNews")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/PersonalCabinet/News")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch news page")
		return NewsPage{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse news page html")
		return NewsPage{}, err
	}

	return parseNewsPage(doc, c.BaseUrl.String()), nil
}

func parseNewsPage(doc *goquery.Document, baseUrl string) NewsPage {
	page := NewsPage{
		FullName: strings.TrimSpace(doc.Find("span[id$=lbFIO1]").First().Text()),
	}

	doc.Find("h2[align=left]").Each(func(_ int, h2 *goquery.Selection) {
		link := h2.Find("a").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}

		href := link.AttrOr("href", "")
		if strings.HasPrefix(href, "/") {
			href = baseUrl + href
		}

		page.Items = append(page.Items, NewsItem{
			Title:       title,
			Description: strings.TrimSpace(h2.NextFiltered("p").Text()),
			Link:        href,
		})
	})

	return page
}

// FetchPhoto returns the student's portrait as raw image bytes.
func (c *Client) FetchPhoto(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:FetchPhoto")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/Photo/Photo.aspx")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch photo")
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("photo endpoint returned status %d", res.StatusCode())
	}
	return res.Body(), nil
}

// Progress is the academic standing block of the cabinet: the running
// grade average plus the free-text course/specialty line.
type Progress struct {
	GradeText  string
	GradeValue float64
	Course     int
	Specialty  string
}

var gradeValuePattern = regexp.MustCompile(`\d+[.,]\d+`)
var coursePattern = regexp.MustCompile(`(\d+)\s*курс`)

// FetchProgress scrapes the academic standing page.
func (c *Client) FetchProgress(ctx context.Context) (Progress, error) {
	ctx, span := tracer.Start(ctx, "client:FetchProgress")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/PersonalCabinet/StudProgress")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch progress page")
		return Progress{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse progress page html")
		return Progress{}, err
	}

	return parseProgress(doc), nil
}

// parseProgress digs the grade and course info out of the ASP.NET
// label spans. Both are free text typed in by faculty staff, hence the
// forgiving regexes. A missing course defaults to the first year.
func parseProgress(doc *goquery.Document) Progress {
	progress := Progress{Course: 1}

	gradeText := strings.TrimSpace(doc.Find("span[id$=lbStudBall]").First().Text())
	progress.GradeText = textutil.CollapseSpaces(gradeText)
	if m := gradeValuePattern.FindString(gradeText); m != "" {
		value, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
		if err == nil {
			progress.GradeValue = value
		}
	}

	info := strings.ToLower(strings.TrimSpace(doc.Find("span[id$=lbStudKurs]").First().Text()))
	if m := coursePattern.FindStringSubmatch(info); m != nil {
		course, err := strconv.Atoi(m[1])
		if err == nil {
			progress.Course = course
		}
	}
	for _, part := range strings.Split(info, ",") {
		if strings.Contains(part, "специальность") {
			specialty := strings.ReplaceAll(part, "специальность:", "")
			progress.Specialty = strings.TrimSpace(specialty)
		}
	}

	return progress
}
