package flow

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/placepoint/placepoint/internal/gateway/translate"
)

// Translator renders text from one language into another.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// LanguagePair is a corrected source/target language code pair.
type LanguagePair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// SwapRequest exchanges the language pair along with the panel's text
// content, so the previous result becomes the next input.
type SwapRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Input  string `json:"input"`
	Result string `json:"result"`
}

// SwapResult is the panel content after a swap.
type SwapResult struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Input  string `json:"input"`
	Result string `json:"result"`
}

// TranslateRequest is one translation invocation. Offered carries the
// language codes the widget's selectors expose, used when a code needs
// correcting.
type TranslateRequest struct {
	Text    string   `json:"text"`
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Offered []string `json:"offered,omitempty"`
}

// TranslateFlow validates language codes and drives the translation gateway.
type TranslateFlow struct {
	translator Translator
	log        *logrus.Logger
}

// NewTranslateFlow wires the translation flow.
func NewTranslateFlow(translator Translator, log *logrus.Logger) *TranslateFlow {
	return &TranslateFlow{translator: translator, log: log}
}

// Open corrects the language pair for a freshly opened panel.
func (f *TranslateFlow) Open(source, target string, offered []string) LanguagePair {
	return LanguagePair{
		Source: translate.CorrectCode(source, offered, translate.DefaultSourceCode),
		Target: translate.CorrectCode(target, offered, translate.DefaultTargetCode),
	}
}

// Swap exchanges source/target codes and input/result text. Codes are
// corrected before swapping.
func (f *TranslateFlow) Swap(req SwapRequest) SwapResult {
	source := translate.CorrectCode(req.Source, nil, translate.DefaultSourceCode)
	target := translate.CorrectCode(req.Target, nil, translate.DefaultTargetCode)
	return SwapResult{
		Source: target,
		Target: source,
		Input:  req.Result,
		Result: req.Input,
	}
}

// Translate validates and corrects the request, then invokes the gateway.
// Empty input is rejected with a *ValidationError before any request.
func (f *TranslateFlow) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", &ValidationError{Message: "please enter text to translate"}
	}

	source := translate.CorrectCode(req.Source, req.Offered, translate.DefaultSourceCode)
	target := translate.CorrectCode(req.Target, req.Offered, translate.DefaultTargetCode)

	translated, err := f.translator.Translate(ctx, text, source, target)
	if err != nil {
		f.log.WithError(err).WithFields(logrus.Fields{
			"source": source,
			"target": target,
		}).Warn("translation failed")
		return "", err
	}
	return translated, nil
}
