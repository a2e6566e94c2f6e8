package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saasgrid-backend/shared/config"
)

func TestBuildEmailMessage(t *testing.T) {
	cfg := &config.Config{
		EmailFrom:     "noreply@saasgrid.test",
		EmailFromName: "SaasGrid",
	}
	es := NewEmailService(cfg)

	message := es.buildEmailMessage(EmailRequest{
		To:      []string{"a@example.com", "b@example.com"},
		CC:      []string{"c@example.com"},
		Subject: "Hello",
		Body:    "<p>Hi</p>",
		IsHTML:  true,
	})

	assert.Contains(t, message, "From: SaasGrid <noreply@saasgrid.test>\r\n")
	assert.Contains(t, message, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, message, "CC: c@example.com\r\n")
	assert.Contains(t, message, "Subject: Hello\r\n")
	assert.Contains(t, message, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.Contains(t, message, "\r\n\r\n<p>Hi</p>")
}

func TestBuildEmailMessagePlainText(t *testing.T) {
	es := NewEmailService(&config.Config{EmailFrom: "noreply@saasgrid.test"})

	message := es.buildEmailMessage(EmailRequest{
		To:      []string{"a@example.com"},
		Subject: "Plain",
		Body:    "just text",
	})

	assert.Contains(t, message, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.NotContains(t, message, "CC:")
}

func TestSendEmailValidation(t *testing.T) {
	es := NewEmailService(&config.Config{})

	_, err := es.SendEmail(EmailRequest{Subject: "no recipients", Body: "x"})
	assert.Error(t, err)

	_, err = es.SendEmail(EmailRequest{To: []string{"a@example.com"}, Body: "x"})
	assert.Error(t, err)

	_, err = es.SendEmail(EmailRequest{To: []string{"a@example.com"}, Subject: "no body"})
	assert.Error(t, err)
}

func TestRenderTemplateFromDisk(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "welcome.html")
	require.NoError(t, os.WriteFile(templatePath, []byte("<h1>Hi {{.Name}}</h1>"), 0o644))

	ts := NewTemplateService(&config.Config{})
	ts.templateDir = dir

	rendered, err := ts.RenderTemplate("welcome", map[string]interface{}{"Name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi Ada</h1>", rendered)

	// Second render is served from the cache even if the file changes
	require.NoError(t, os.WriteFile(templatePath, []byte("changed"), 0o644))
	rendered, err = ts.RenderTemplate("welcome", map[string]interface{}{"Name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi Ada</h1>", rendered)

	// Reload picks up the new content
	require.NoError(t, ts.ReloadTemplate("welcome"))
	rendered, err = ts.RenderTemplate("welcome", nil)
	require.NoError(t, err)
	assert.Equal(t, "changed", rendered)
}

func TestRenderTemplateMissingFile(t *testing.T) {
	ts := NewTemplateService(&config.Config{})
	ts.templateDir = t.TempDir()

	_, err := ts.RenderTemplate("welcome", nil)
	assert.Error(t, err)
}

func TestGetTemplateFilename(t *testing.T) {
	ts := NewTemplateService(&config.Config{})

	assert.Equal(t, "welcome.html", ts.getTemplateFilename("welcome"))
	assert.Equal(t, "tenant_lifecycle.html", ts.getTemplateFilename("tenant_lifecycle"))
	assert.Equal(t, "system_alert.html", ts.getTemplateFilename("system_alert"))
	assert.Equal(t, "custom.html", ts.getTemplateFilename("custom"))
}
