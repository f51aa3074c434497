// Package ocr is a client for the recognition sidecar, a small
// companion process that wraps an OCR model behind HTTP. It is used in
// two places: solving the portal's login captcha and recognizing
// timetable pages that carry no extractable text layer.
package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"firportal-backend/lib/restyutil"
	"firportal-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

var tracer = telemetry.Tracer("firportal.lib.ocr")

type Client struct {
	client  *resty.Client
	baseUrl string
}

type ClientOptions struct {
	BaseUrl string
	// can be nil, in which case requests are not dumped anywhere
	InstrumentOutput restyutil.InstrumentOutput
}

func NewClient(options ClientOptions) Client {
	client := resty.New()
	client.SetTimeout(time.Second * 60)
	restyutil.InstrumentClient(client, tracer, options.InstrumentOutput)

	return Client{
		client:  client,
		baseUrl: options.BaseUrl,
	}
}

type classifyRequest struct {
	ImageB64 string `json:"image_base64"`
}

type classifyResponse struct {
	Text string `json:"text"`
}

// Classify runs single-line recognition over a small image, which is
// exactly the shape of the portal's captcha.
func (c Client) Classify(ctx context.Context, image []byte) (string, error) {
	var result classifyResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetBody(classifyRequest{
			ImageB64: base64.StdEncoding.EncodeToString(image),
		}).
		SetResult(&result).
		Post(c.baseUrl + "/classify")
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("ocr sidecar returned status %d", res.StatusCode())
	}
	return result.Text, nil
}

// Word is one recognized token with its bounding box in rendered-page
// coordinates (origin top-left).
type Word struct {
	Text       string  `json:"text"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Right      float64 `json:"right"`
	Bottom     float64 `json:"bottom"`
	Confidence float64 `json:"confidence"`
}

type RecognizeResponse struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Words  []Word  `json:"words"`
}

type recognizeRequest struct {
	DocumentB64 string  `json:"document_base64"`
	Scale       float64 `json:"scale"`
}

// renderScale trades recognition quality against sidecar latency, the
// sidecar rasterizes the page at this zoom before running the model.
const renderScale = 1.5

// Recognize renders a single-page document on the sidecar and returns
// every recognized word with its box.
func (c Client) Recognize(ctx context.Context, document []byte) (RecognizeResponse, error) {
	ctx, span := tracer.Start(ctx, "Recognize")
	defer span.End()

	var result RecognizeResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetBody(recognizeRequest{
			DocumentB64: base64.StdEncoding.EncodeToString(document),
			Scale:       renderScale,
		}).
		SetResult(&result).
		Post(c.baseUrl + "/recognize")
	if err != nil {
		return RecognizeResponse{}, err
	}
	if res.IsError() {
		return RecognizeResponse{}, fmt.Errorf("ocr sidecar returned status %d", res.StatusCode())
	}
	return result, nil
}
