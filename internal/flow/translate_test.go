package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placepoint/placepoint/internal/gateway"
)

type fakeTranslator struct {
	out        string
	err        error
	lastSource string
	lastTarget string
	calls      int
}

func (f *fakeTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	f.calls++
	f.lastSource = sourceLang
	f.lastTarget = targetLang
	return f.out, f.err
}

func TestTranslateFlowOpenCorrectsCodes(t *testing.T) {
	f := NewTranslateFlow(&fakeTranslator{}, testLogger())

	pair := f.Open("", "undefined", []string{"bogus", "ja"})
	assert.Equal(t, "ja", pair.Source)
	assert.Equal(t, "ja", pair.Target)

	pair = f.Open("", "", nil)
	assert.Equal(t, "en", pair.Source)
	assert.Equal(t, "vi", pair.Target)
}

func TestTranslateFlowSwap(t *testing.T) {
	f := NewTranslateFlow(&fakeTranslator{}, testLogger())

	out := f.Swap(SwapRequest{Source: "en", Target: "vi", Input: "hello", Result: "xin chào"})
	assert.Equal(t, "vi", out.Source)
	assert.Equal(t, "en", out.Target)
	assert.Equal(t, "xin chào", out.Input)
	assert.Equal(t, "hello", out.Result)
}

func TestTranslateFlowSwapCorrectsBadCodes(t *testing.T) {
	f := NewTranslateFlow(&fakeTranslator{}, testLogger())

	out := f.Swap(SwapRequest{Source: "bogus", Target: "", Input: "a", Result: "b"})
	// Corrected to (en, vi) before the exchange.
	assert.Equal(t, "vi", out.Source)
	assert.Equal(t, "en", out.Target)
}

func TestTranslateFlowEmptyText(t *testing.T) {
	translator := &fakeTranslator{}
	f := NewTranslateFlow(translator, testLogger())

	_, err := f.Translate(context.Background(), TranslateRequest{Text: "  "})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Zero(t, translator.calls)
}

func TestTranslateFlowCorrectsCodesBeforeRequest(t *testing.T) {
	translator := &fakeTranslator{out: "xin chào"}
	f := NewTranslateFlow(translator, testLogger())

	out, err := f.Translate(context.Background(), TranslateRequest{
		Text:   "hello",
		Source: "not-a-language",
		Target: "vi",
	})
	require.NoError(t, err)
	assert.Equal(t, "xin chào", out)
	assert.Equal(t, "en", translator.lastSource)
	assert.Equal(t, "vi", translator.lastTarget)
}

func TestTranslateFlowSurfacesTypedErrors(t *testing.T) {
	translator := &fakeTranslator{err: &gateway.RateLimitedError{Service: "translate"}}
	f := NewTranslateFlow(translator, testLogger())

	_, err := f.Translate(context.Background(), TranslateRequest{Text: "hello", Source: "en", Target: "vi"})

	var rateLimited *gateway.RateLimitedError
	require.ErrorAs(t, err, &rateLimited)
}
