package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/explorastur/explorastur/internal/config"
	"github.com/explorastur/explorastur/internal/event"
)

// llmPrompt asks the model for raw records in the same shape every other
// fetcher produces. Date text is copied verbatim so the date parser stays the
// single authority on date semantics.
const llmPrompt = `Extract every event listed in the following web page content.
Return ONLY a JSON array. Each element must have these string fields:
- "title": the event name
- "date": the date text exactly as written on the page (e.g. "11 de mayo", "del 9 al 18 de mayo")
- "location": venue or address, "" if not stated
- "url": link for the event, "" if none
Skip navigation, ads and section headers. No text outside the JSON array.

Page content:
%s`

// llmFetcher is the alternate extraction path: the page is fetched normally,
// then handed to an OpenAI-compatible chat endpoint instead of selectors.
// Same contract and error surface as any other fetcher.
type llmFetcher struct {
	cfg    config.Source
	client *Client
	llm    config.LLM
	http   *http.Client
}

func newLLMFetcher(cfg config.Source, client *Client, llm config.LLM) (*llmFetcher, error) {
	if llm.BaseURL == "" {
		return nil, fmt.Errorf("source %s: llm.base_url is not configured", cfg.ID)
	}
	return &llmFetcher{
		cfg:    cfg,
		client: client,
		llm:    llm,
		http:   &http.Client{Timeout: llm.Timeout},
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (f *llmFetcher) Fetch(ctx context.Context, cursor string) ([]event.RawRecord, string, error) {
	pageURL := cursor
	if pageURL == "" {
		pageURL = f.cfg.StartURL
	}
	body, err := f.client.Get(ctx, pageURL)
	if err != nil {
		return nil, "", err
	}

	content, err := f.pageContent(body)
	if err != nil {
		return nil, "", err
	}

	reply, err := f.complete(ctx, fmt.Sprintf(llmPrompt, content))
	if err != nil {
		return nil, "", err
	}

	records, err := f.parseReply(reply)
	return records, "", err
}

// pageContent reduces the page to the configured content selector's text, or
// the whole body text when no selector is set. Sending raw markup to the
// model wastes its context window.
func (f *llmFetcher) pageContent(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	sel := doc.Selection
	if f.cfg.Selectors.Item != "" {
		if filtered := doc.Find(f.cfg.Selectors.Item); filtered.Length() > 0 {
			sel = filtered
		}
	}
	return collapse(sel.Text()), nil
}

func (f *llmFetcher) complete(ctx context.Context, prompt string) (string, error) {
	model := f.llm.Model
	if model == "" {
		model = "default"
	}
	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: "You extract structured event information from web pages."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	endpoint := strings.TrimSuffix(f.llm.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling llm: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("calling llm: status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("decoding llm response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", errors.New("llm returned no choices")
	}
	return chat.Choices[0].Message.Content, nil
}

// parseReply decodes the model's JSON array into raw records. A reply wrapped
// in markdown fences or stray prose is trimmed to its outermost array first.
func (f *llmFetcher) parseReply(reply string) ([]event.RawRecord, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start == -1 || end <= start {
		return nil, errors.New("llm reply contains no JSON array")
	}

	var items []struct {
		Title    string `json:"title"`
		Date     string `json:"date"`
		Location string `json:"location"`
		URL      string `json:"url"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("decoding llm reply: %w", err)
	}

	records := make([]event.RawRecord, 0, len(items))
	for _, it := range items {
		records = append(records, event.RawRecord{
			Title:        it.Title,
			DateText:     it.Date,
			LocationText: it.Location,
			URL:          it.URL,
			SourceID:     f.cfg.ID,
		})
	}
	return records, nil
}
