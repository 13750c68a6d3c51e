package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var (
	ErrMalformedResponse = errors.New("malformed translation response")
	ErrEmptyText         = errors.New("text is empty")
)

const (
	DefaultEndpoint = "https://api.cognitive.microsofttranslator.com"
	requestTimeout  = 10 * time.Second
)

// Translator converts text between languages. An empty from lets the provider detect it.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

var _ Translator = (*MicrosoftTranslator)(nil)

// MicrosoftTranslator calls the Microsoft Translator v3 REST API.
type MicrosoftTranslator struct {
	httpClient *http.Client
	endpoint   string
	key        string
	region     string
}

func NewMicrosoftTranslator(httpClient *http.Client, endpoint, key, region string) *MicrosoftTranslator {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &MicrosoftTranslator{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(endpoint, "/"),
		key:        key,
		region:     region,
	}
}

func (t *MicrosoftTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	payload, err := json.Marshal([]map[string]string{{"Text": text}})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	query := url.Values{}
	query.Set("api-version", "3.0")
	query.Set("to", to)
	if from != "" {
		query.Set("from", from)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodPost, t.endpoint+"/translate?"+query.Encode(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Ocp-Apim-Subscription-Key", t.key)
	if t.region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", t.region)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call translator: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s: %s", resp.StatusCode, resp.Status, gjson.GetBytes(data, "error.message").String())
	}

	translated := gjson.GetBytes(data, "0.translations.0.text")
	if !gjson.ValidBytes(data) || !translated.Exists() {
		return "", ErrMalformedResponse
	}

	return translated.String(), nil
}
