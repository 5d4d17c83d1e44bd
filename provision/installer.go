package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const accessTokenHeader = "X-Shop-Access-Token"

// Installer performs the admin-API calls that register webhooks and script
// tags on a shop.
type Installer struct {
	client *http.Client
}

func NewInstaller() *Installer {
	return &Installer{client: &http.Client{Timeout: 10 * time.Second}}
}

// NewInstallerWithClient allows tests to supply their own HTTP client.
func NewInstallerWithClient(client *http.Client) *Installer {
	return &Installer{client: client}
}

// InstallWebhooks registers each topic subscription on the shop.
func (i *Installer) InstallWebhooks(ctx context.Context, shop, token string, hooks []Webhook) error {
	for _, hook := range hooks {
		body := map[string]interface{}{
			"webhook": map[string]string{
				"topic":   hook.Topic,
				"address": hook.Address,
				"format":  "json",
			},
		}
		url := fmt.Sprintf("https://%s/admin/webhooks.json", shop)
		if err := i.post(ctx, url, token, body); err != nil {
			return fmt.Errorf("install webhook %s: %w", hook.Topic, err)
		}
	}
	return nil
}

// InstallScriptTags registers each script injection on the shop.
func (i *Installer) InstallScriptTags(ctx context.Context, shop, token string, tags []ScriptTag) error {
	for _, tag := range tags {
		body := map[string]interface{}{
			"script_tag": map[string]string{
				"event": tag.Event,
				"src":   tag.Src,
			},
		}
		url := fmt.Sprintf("https://%s/admin/script_tags.json", shop)
		if err := i.post(ctx, url, token, body); err != nil {
			return fmt.Errorf("install script tag %s: %w", tag.Src, err)
		}
	}
	return nil
}

func (i *Installer) post(ctx context.Context, url, token string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, token)

	resp, err := i.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("admin api returned %d", resp.StatusCode)
	}
	return nil
}
