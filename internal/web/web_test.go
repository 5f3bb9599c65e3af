package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robinblocks/site/internal/web/signup"
)

func render(t *testing.T, page string, data any) string {
	t.Helper()
	pages, err := NewPages()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, pages.Render(&buf, page, data))
	return buf.String()
}

func TestIndexIdleShowsForm(t *testing.T) {
	html := render(t, PageIndex, IndexData{Form: &signup.Form{}})

	assert.Contains(t, html, `<title>Join Robin Blocks - Stay Updated with the Latest Insights</title>`)
	assert.Contains(t, html, `action="/signup"`)
	assert.Contains(t, html, "Join Robin Blocks</button>")
	assert.NotContains(t, html, `role="alert"`)
}

func TestIndexFailedShowsErrorAndKeepsFields(t *testing.T) {
	form := &signup.Form{Email: "a@b.com", FirstName: "Jo", Error: "Please enter a valid email address"}
	html := render(t, PageIndex, IndexData{Form: form})

	assert.Contains(t, html, "Please enter a valid email address")
	assert.Contains(t, html, `value="a@b.com"`)
	assert.Contains(t, html, `value="Jo"`)
}

func TestIndexSucceededShowsReset(t *testing.T) {
	html := render(t, PageIndex, IndexData{Form: &signup.Form{Success: true}})

	assert.Contains(t, html, "Welcome aboard!")
	assert.Contains(t, html, `action="/signup/reset"`)
	assert.NotContains(t, html, `id="signup"`)
}

func TestIndexEscapesUserInput(t *testing.T) {
	html := render(t, PageIndex, IndexData{Form: &signup.Form{FirstName: `"><script>`}})

	assert.NotContains(t, html, "<script>")
}

func TestGuidePage(t *testing.T) {
	html := render(t, PageGuide, nil)

	assert.Contains(t, html, "Master Sheets (Created First)")
	assert.Contains(t, html, `<a href="/">Join Robin Blocks</a>`)
}
