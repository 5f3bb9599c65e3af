package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type MockModels struct {
	mock.Mock
}

func (m *MockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	resp, _ := args.Get(0).(*genai.GenerateContentResponse)
	return resp, args.Error(1)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

func TestGenerateReturnsText(t *testing.T) {
	models := new(MockModels)
	models.On("GenerateContent", mock.Anything, "gemini-1.5-flash", genai.Text("analyze this"), (*genai.GenerateContentConfig)(nil)).
		Return(textResponse("**Suggestion:** Add social proof"), nil)

	c := &Client{models: models, model: "gemini-1.5-flash", logger: nopLogger()}

	text, err := c.Generate(context.Background(), "analyze this")

	require.NoError(t, err)
	assert.Equal(t, "**Suggestion:** Add social proof", text)
	models.AssertExpectations(t)
}

func TestGenerateWrapsError(t *testing.T) {
	models := new(MockModels)
	models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("quota exceeded"))

	c := &Client{models: models, model: "m", logger: nopLogger()}

	_, err := c.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateRejectsEmptyAnswer(t *testing.T) {
	models := new(MockModels)
	models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&genai.GenerateContentResponse{}, nil)

	c := &Client{models: models, model: "m", logger: nopLogger()}

	_, err := c.Generate(context.Background(), "p")

	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "m", nil)
	assert.Error(t, err)
}

func nopLogger() *zap.Logger { return zap.NewNop() }
