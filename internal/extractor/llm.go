package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	openai "github.com/sashabaranov/go-openai"

	"priceping/internal/model"
)

const llmSystemPrompt = `You extract product data from web page text.
Respond with a single JSON object with these keys:
"productName" (string, the product title),
"currentPrice" (string, the current selling price as shown, with currency symbol),
"currencyCode" (string, ISO code like USD/INR/EUR, empty if unknown),
"productImageUrl" (string, main product image URL, empty if unknown).
Use an empty string for anything the page does not show.`

// maxPageText bounds how much page text is sent to the model.
const maxPageText = 12000

// LLM extracts product data by fetching the page itself and asking a chat
// model to fill the same schema the scraping backend would.
type LLM struct {
	client     *openai.Client
	model      string
	httpClient *http.Client
}

func NewLLM(client *openai.Client) *LLM {
	return &LLM{
		client:     client,
		model:      openai.GPT4oMini,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (l *LLM) Extract(ctx context.Context, url string) (*model.ExtractedProduct, error) {
	html, err := l.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrExtract, url, err)
	}

	text, err := pageText(html)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrExtract, url, err)
	}

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llmSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtract, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrExtract)
	}

	var rec model.ExtractedProduct
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &rec); err != nil {
		return nil, fmt.Errorf("%w: decode completion: %v", ErrExtract, err)
	}
	if err := checkRequired(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (l *LLM) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	return string(b), err
}

// pageText reduces a product page to the text the model needs: title,
// og:image, visible headings and copy, and the first image URLs.
func pageText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	var content []string
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		content = append(content, "Title: "+title)
	}
	if og, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		content = append(content, "Image: "+og)
	}
	doc.Find("h1, h2, p, li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			content = append(content, t)
		}
	})
	imgs := 0
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		content = append(content, "Image: "+src)
		imgs++
		return imgs < 3
	})

	text := strings.Join(content, "\n")
	if len(text) > maxPageText {
		// Cut on a rune boundary; a split glyph would be invalid UTF-8.
		cut := maxPageText
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text, nil
}
