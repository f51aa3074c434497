// Package cabinet fronts the student portal: it logs students in,
// keeps their portal sessions alive in memory behind opaque tokens and
// aggregates the personal cabinet's pages into one response.
package cabinet

import (
	"context"
	"errors"
	"time"

	"firportal-backend/lib/ocr"
	"firportal-backend/lib/restyutil"
	"firportal-backend/lib/scrapers/bsu"
	"firportal-backend/lib/telemetry"
	"firportal-backend/services/timetable"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("firportal.services.cabinet")

var ErrUnauthorized = errors.New("unknown or expired session token")

const (
	sessionCapacity = 2048
	sessionTtl      = time.Hour * 12
	tokenLength     = 32
)

// SessionFactory opens a fresh authenticated portal session.
type SessionFactory interface {
	NewSession(ctx context.Context, username, password string) (*bsu.Client, error)
}

type portalFactory struct {
	ocr        *ocr.Client
	instrument restyutil.InstrumentOutput
}

type PortalFactoryOptions struct {
	// solves the portal's login captcha
	Ocr *ocr.Client
	// can be nil, in which case requests are not dumped anywhere
	InstrumentOutput restyutil.InstrumentOutput
}

func NewPortalFactory(options PortalFactoryOptions) SessionFactory {
	return portalFactory{ocr: options.Ocr, instrument: options.InstrumentOutput}
}

func (f portalFactory) NewSession(ctx context.Context, username, password string) (*bsu.Client, error) {
	client, err := bsu.NewClient(bsu.ClientOptions{
		Ocr:              f.ocr,
		InstrumentOutput: f.instrument,
	})
	if err != nil {
		return nil, err
	}
	err = client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return client, nil
}

type Service struct {
	sessions  *expirable.LRU[string, *bsu.Client]
	factory   SessionFactory
	timetable timetable.Service
}

type Options struct {
	Factory   SessionFactory
	Timetable timetable.Service
}

func NewService(options Options) Service {
	return Service{
		sessions:  expirable.NewLRU[string, *bsu.Client](sessionCapacity, nil, sessionTtl),
		factory:   options.Factory,
		timetable: options.Timetable,
	}
}

// Login authenticates against the portal and returns an opaque session
// token for the mobile client to present on subsequent calls.
func (s Service) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	client, err := s.factory.NewSession(ctx, username, password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open portal session")
		return "", err
	}

	token, err := random.String(tokenLength)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate session token")
		return "", err
	}

	s.sessions.Add(token, client)
	return token, nil
}

func (s Service) session(token string) (*bsu.Client, error) {
	client, hit := s.sessions.Get(token)
	if !hit {
		return nil, ErrUnauthorized
	}
	return client, nil
}
