package generator

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini generates responses with Google's Gemini models in JSON mode.
type Gemini struct {
	APIKey      string
	Model       string
	Temperature float32
}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"message": {Type: genai.TypeString},
		"filesToUpdate": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"fileName": {Type: genai.TypeString},
					"content":  {Type: genai.TypeString},
				},
				Required: []string{"fileName", "content"},
			},
		},
		"commandsToExecute": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"roadmap":           {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"message", "filesToUpdate"},
}

// Generate sends the history to the model and decodes its JSON reply.
func (g *Gemini) Generate(ctx context.Context, req Request) (Response, error) {
	if g.APIKey == "" {
		return Response{}, &GeneratorError{Op: "configure", Err: ErrNoAPIKey}
	}
	if len(req.History) == 0 || req.History[len(req.History)-1].Role != RoleUser {
		return Response{}, &GeneratorError{Op: "request", Err: errors.New("history must end with a user message")}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return Response{}, &GeneratorError{Op: "connect", Err: err}
	}
	defer client.Close()

	model := client.GenerativeModel(g.Model)
	model.SetTemperature(g.Temperature)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = responseSchema
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemInstruction(req.Files, req.Roadmap))},
	}

	chat := model.StartChat()
	prior, last := req.History[:len(req.History)-1], req.History[len(req.History)-1]
	for _, m := range prior {
		chat.History = append(chat.History, &genai.Content{
			Role:  m.Role,
			Parts: []genai.Part{genai.Text(m.Text)},
		})
	}

	resp, err := chat.SendMessage(ctx, genai.Text(last.Text))
	if err != nil {
		return Response{}, &GeneratorError{Op: "generate", Err: err}
	}
	return Decode(responseText(resp))
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
