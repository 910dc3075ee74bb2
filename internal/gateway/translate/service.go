// Package translate translates text through a two-tier strategy: a private
// backend first, bounded by a short timeout, then the public MyMemory API.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/placepoint/placepoint/internal/gateway"
)

const defaultFallbackURL = "https://api.mymemory.translated.net/get"

// DefaultPrivateTimeout bounds the private backend attempt. The fallback call
// has no deadline of its own.
const DefaultPrivateTimeout = 5 * time.Second

// privateRequest is the private backend contract: POST /translate.
type privateRequest struct {
	Text string `json:"text"`
	Src  string `json:"src"`
	Dest string `json:"dest"`
}

type privateResponse struct {
	Success        bool   `json:"success"`
	TranslatedText string `json:"translated_text"`
}

type myMemoryResponse struct {
	ResponseStatus int `json:"responseStatus"`
	ResponseData   *struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// Service is the translation gateway.
type Service struct {
	client         gateway.Doer
	privateURL     string
	privateTimeout time.Duration
	fallbackURL    string
	log            *logrus.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient replaces the HTTP client, primarily for tests.
func WithHTTPClient(c gateway.Doer) Option {
	return func(s *Service) { s.client = c }
}

// WithFallbackURL points the service at a different public API endpoint.
func WithFallbackURL(u string) Option {
	return func(s *Service) { s.fallbackURL = u }
}

// WithPrivateTimeout bounds the private backend attempt.
func WithPrivateTimeout(d time.Duration) Option {
	return func(s *Service) { s.privateTimeout = d }
}

// NewService creates a translation gateway. privateURL may be empty, in which
// case only the public fallback is used.
func NewService(privateURL string, log *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		client:         gateway.NewHTTPClient(),
		privateURL:     privateURL,
		privateTimeout: DefaultPrivateTimeout,
		fallbackURL:    defaultFallbackURL,
		log:            log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Translate renders text from sourceLang into targetLang. Callers are
// expected to have corrected the language codes already (CorrectCode).
func (s *Service) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if s.privateURL != "" {
		translated, err := s.translatePrivate(ctx, text, sourceLang, targetLang)
		if err == nil {
			return translated, nil
		}
		s.log.WithError(err).Debug("private translation backend unavailable, using public fallback")
	}
	return s.translateFallback(ctx, text, sourceLang, targetLang)
}

func (s *Service) translatePrivate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.privateTimeout)
	defer cancel()

	body, err := json.Marshal(privateRequest{Text: text, Src: sourceLang, Dest: targetLang})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.privateURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	var parsed privateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if !parsed.Success || parsed.TranslatedText == "" {
		return "", fmt.Errorf("backend reported failure")
	}
	return parsed.TranslatedText, nil
}

func (s *Service) translateFallback(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", sourceLang+"|"+targetLang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.fallbackURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", &gateway.GatewayError{Service: "translate", Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &gateway.GatewayError{Service: "translate", Err: err}
	}
	defer resp.Body.Close()

	var parsed myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &gateway.GatewayError{Service: "translate", Err: fmt.Errorf("decode response: %w", err)}
	}

	switch {
	case parsed.ResponseStatus == http.StatusOK && parsed.ResponseData != nil:
		return parsed.ResponseData.TranslatedText, nil
	case parsed.ResponseStatus == http.StatusForbidden:
		return "", &gateway.RateLimitedError{Service: "translate"}
	default:
		return "", &gateway.TranslationError{Reason: fmt.Sprintf("fallback status %d", parsed.ResponseStatus)}
	}
}
