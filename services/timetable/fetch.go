package timetable

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"firportal-backend/lib/restyutil"
	"firportal-backend/lib/scrapers/bsu"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// DocumentFetcher retrieves a published timetable document by file
// name.
type DocumentFetcher interface {
	Fetch(ctx context.Context, file string) ([]byte, error)
}

type facultyFetcher struct {
	client *resty.Client
}

type FetcherOptions struct {
	// can be nil, in which case requests are not dumped anywhere
	InstrumentOutput restyutil.InstrumentOutput
}

// NewFacultyFetcher downloads timetable documents from the faculty
// site. The site sits behind cloudflare and serves a certificate chain
// go's verifier refuses, so both get special treatment.
func NewFacultyFetcher(options FetcherOptions) DocumentFetcher {
	client := resty.New()
	client.SetTimeout(time.Second * 60)
	client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	restyutil.InstrumentClient(client, tracer, options.InstrumentOutput)

	return facultyFetcher{client: client}
}

func (f facultyFetcher) Fetch(ctx context.Context, file string) ([]byte, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(bsu.TimetableUrl(file))
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("faculty site returned status %d for %q", res.StatusCode(), file)
	}
	return res.Body(), nil
}
