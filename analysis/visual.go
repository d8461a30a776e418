package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"

	"go-safetyboard/types"
)

var ErrInvalidImage = errors.New("invalid image data uri")

const (
	hazardErrMessage       = "이미지 분석 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	invalidImageMessage    = "이미지 형식이 올바르지 않습니다. 'data:image/...;base64,' 형식의 이미지를 업로드해주세요."
	visualAnalysisSystemKo = "당신은 건설 안전 전문가 AI입니다. 당신의 역할은 건설 현장과 관련된 이미지와 텍스트를 분석하여 잠재적 위험 요소를 식별하고, 안전 개선 사항을 제안하며, 관련 질문에 답변하는 것입니다. 답변은 간결하고 명확하며 전문가적인 어조를 유지해야 합니다. 실행 가능한 조언을 우선적으로 제공하세요. 이미지가 제공되지 않은 경우, 건설 안전에 대한 일반적인 지식을 바탕으로 질문에 답변하세요. 모든 답변은 한국어로 제공해야 합니다."
)

var imageDataURIRe = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// ValidateImageDataURI checks that uri is a base64 encoded image data URI.
func ValidateImageDataURI(uri string) error {
	loc := imageDataURIRe.FindStringIndex(uri)
	if loc == nil {
		return ErrInvalidImage
	}
	payload := uri[loc[1]:]
	if payload == "" {
		return fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return nil
}

// ChunkStream yields the text of a streamed answer in order. It is read once
// and must be closed.
type ChunkStream struct {
	stream *openai.ChatCompletionStream
	onDone func(err error)
	done   bool
}

// Recv returns the next non-empty chunk, or io.EOF once the answer is complete.
func (c *ChunkStream) Recv() (string, error) {
	if c.done {
		return "", io.EOF
	}
	for {
		resp, err := c.stream.Recv()
		if errors.Is(err, io.EOF) {
			c.finish(nil)
			return "", io.EOF
		}
		if err != nil {
			c.finish(err)
			return "", fmt.Errorf("visual analysis stream: %w", err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		return resp.Choices[0].Delta.Content, nil
	}
}

// Close releases the underlying HTTP response.
func (c *ChunkStream) Close() error {
	c.finish(errors.New("closed before completion"))
	c.stream.Close()
	return nil
}

func (c *ChunkStream) finish(err error) {
	if c.done {
		return
	}
	c.done = true
	if c.onDone != nil {
		c.onDone(err)
	}
}

// Collect reads the stream to the end and joins the chunks.
func Collect(s *ChunkStream) (string, error) {
	defer s.Close()

	var b strings.Builder
	for {
		chunk, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return b.String(), err
		}
		b.WriteString(chunk)
	}
}

// AnalyzeVisual streams the answer to a question about an optional construction
// site image. imageDataURI may be empty.
func (a *Analyzer) AnalyzeVisual(ctx context.Context, prompt, imageDataURI string) (*ChunkStream, error) {
	if strings.TrimSpace(prompt) == "" && imageDataURI == "" {
		return nil, errors.New("prompt or image is required")
	}

	parts := []openai.ChatMessagePart{}
	if imageDataURI != "" {
		if err := ValidateImageDataURI(imageDataURI); err != nil {
			a.record("visual", "skipped", 0)
			return nil, err
		}
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: imageDataURI, Detail: openai.ImageURLDetailAuto},
		})
	}
	parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: prompt})

	start := a.clock.Now()
	stream, err := a.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: visualAnalysisSystemKo},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		Stream: true,
	})
	if err != nil {
		a.record("visual", "error", a.clock.Since(start))
		return nil, fmt.Errorf("openai chat completion stream error: %w", err)
	}

	return &ChunkStream{
		stream: stream,
		onDone: func(err error) {
			if err != nil {
				log.Printf("Visual analysis stream ended early: %v", err)
				a.record("visual", "error", a.clock.Since(start))
				return
			}
			a.record("visual", "success", a.clock.Since(start))
		},
	}, nil
}

// IdentifyHazards lists the safety hazards visible in a construction site photo.
// Failures come back in the Error field.
func (a *Analyzer) IdentifyHazards(ctx context.Context, imageDataURI string) types.HazardResult {
	if err := ValidateImageDataURI(imageDataURI); err != nil {
		a.record("hazards", "skipped", 0)
		return types.HazardResult{Error: invalidImageMessage}
	}

	start := a.clock.Now()
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a safety officer reviewing images from a construction site. " +
					"Identify any potential safety hazards visible in the image and provide a description of each hazard in Korean. " +
					`Respond with a JSON object with a string array field "hazards".`,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageDataURI, Detail: openai.ImageURLDetailAuto},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err == nil && (len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "") {
		err = errors.New("openai returned empty response or choices")
	}

	var out types.HazardResult
	if err == nil {
		err = decodeHazards(resp.Choices[0].Message.Content, &out)
	}
	if err != nil {
		log.Printf("Hazard identification failed: %v", err)
		a.record("hazards", "error", a.clock.Since(start))
		return types.HazardResult{Error: hazardErrMessage}
	}

	a.record("hazards", "success", a.clock.Since(start))
	return out
}

func decodeHazards(content string, out *types.HazardResult) error {
	var raw struct {
		Hazards []string `json:"hazards"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return err
	}
	out.Hazards = orEmpty(nonBlank(raw.Hazards))
	return nil
}
