package internal

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// CategoryGaming is the fixed YouTube category id for uploaded clips
const CategoryGaming = "20"

// ErrAuth marks failures that make uploading impossible for the whole run
// (missing client secret, failed interactive flow). The orchestrator treats
// these as fatal while ordinary upload errors only skip the current clip.
var ErrAuth = errors.New("authentication failed")

// Publisher uploads transcoded clips to YouTube. The OAuth credential is
// loaded from the token file when still valid; otherwise an interactive
// installed-app flow is run once and the new token persisted. The mutex
// serializes token writes and prevents two concurrent interactive flows.
type Publisher struct {
	tokenFile        string
	clientSecretFile string
	verbose          bool

	mu      sync.Mutex
	service *youtube.Service
}

// NewPublisher creates a YouTube publisher
func NewPublisher(tokenFile, clientSecretFile string, verbose bool) *Publisher {
	return &Publisher{
		tokenFile:        tokenFile,
		clientSecretFile: clientSecretFile,
		verbose:          verbose,
	}
}

// LoadToken reads a cached OAuth token from path
func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("parsing token file: %w", err)
	}
	return token, nil
}

// SaveToken persists an OAuth token to path as JSON
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating token file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// flowConfig loads the OAuth client configuration from the client secret file
func (p *Publisher) flowConfig() (*oauth2.Config, error) {
	b, err := os.ReadFile(p.clientSecretFile)
	if err != nil {
		return nil, fmt.Errorf("reading client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, UploadScope)
	if err != nil {
		return nil, fmt.Errorf("parsing client secret file: %w", err)
	}
	return config, nil
}

// Authorize runs the interactive installed-app flow and persists the
// resulting token. The user has to open the printed URL in a browser; the
// authorization code comes back through a local callback listener.
func (p *Publisher) Authorize(ctx context.Context) (*oauth2.Token, error) {
	config, err := p.flowConfig()
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("starting callback listener: %w", err)
	}
	defer listener.Close()
	config.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr().String())

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}
	state := hex.EncodeToString(stateBytes)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- fmt.Errorf("state mismatch in callback")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			errCh <- fmt.Errorf("callback missing authorization code")
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this tab.")
		codeCh <- code
	})}
	go func() { _ = server.Serve(listener) }()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Printf("Open this URL in your browser to authorize YouTube uploads:\n%s\n", authURL)

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	if err := SaveToken(p.tokenFile, token); err != nil {
		return nil, err
	}
	if p.verbose {
		fmt.Printf("Saved OAuth token to %s\n", p.tokenFile)
	}
	return token, nil
}

// Authenticate ensures a YouTube service exists, reusing the cached token
// when valid and running the interactive flow otherwise.
func (p *Publisher) Authenticate(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.service != nil {
		return nil
	}

	token, err := LoadToken(p.tokenFile)
	if err != nil || !token.Valid() {
		if p.verbose {
			fmt.Println("No valid cached token, starting authorization flow")
		}
		token, err = p.Authorize(ctx)
		if err != nil {
			return err
		}
	}

	service, err := youtube.NewService(ctx,
		option.WithTokenSource(oauth2.StaticTokenSource(token)),
		option.WithScopes(UploadScope))
	if err != nil {
		return fmt.Errorf("creating YouTube service: %w", err)
	}
	p.service = service
	return nil
}

// buildUploadVideo assembles the upload request body
func buildUploadVideo(title, description string, tags []string) *youtube.Video {
	return &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: description,
			Tags:        tags,
			CategoryId:  CategoryGaming,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: "public",
		},
	}
}

// Upload performs a resumable upload of the file at path and returns the new
// video id.
func (p *Publisher) Upload(ctx context.Context, path, title, description string, tags []string) (string, error) {
	if err := p.Authenticate(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening video file: %w", err)
	}
	defer file.Close()

	call := p.service.Videos.Insert([]string{"snippet", "status"}, buildUploadVideo(title, description, tags))
	response, err := call.Media(file).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("uploading video: %w", err)
	}
	return response.Id, nil
}
