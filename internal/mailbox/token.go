// internal/mailbox/token.go
package mailbox

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"

	jsoniter "github.com/json-iterator/go"
)

// NewTokenSourceFromFiles builds an oauth2 token source from an OAuth
// client credentials file and a previously persisted token file. Token
// acquisition itself (the interactive consent handshake) is external
// setup; this only consumes its artifacts and lets oauth2 handle refresh.
func NewTokenSourceFromFiles(ctx context.Context, credentialsFile, tokenFile string) (oauth2.TokenSource, error) {
	credentials, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth credentials %s: %w", credentialsFile, err)
	}
	oauthCfg, err := google.ConfigFromJSON(credentials, gmail.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse oauth credentials %s: %w", credentialsFile, err)
	}

	raw, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth token %s: %w", tokenFile, err)
	}
	var token oauth2.Token
	if err := jsoniter.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("failed to parse oauth token %s: %w", tokenFile, err)
	}

	return oauthCfg.TokenSource(ctx, &token), nil
}
