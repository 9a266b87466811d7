package bourso

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/boursagent/boursagent/internal/common"
	"github.com/boursagent/boursagent/internal/interfaces"
	"github.com/boursagent/boursagent/internal/models"
)

const (
	DefaultBaseURL   = "https://clients.boursobank.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second; a low ceiling avoids anti-automation lockouts

	connexionPath  = "/connexion/"
	passwordPath   = "/connexion/saisie-mot-de-passe"
	ticksPath      = "/bourse/action/graph/ws/GetTicksEOD"
	orderPathFmt   = "/compte-titres/pea/gerer/s-%s/ordre"
	summaryPathFmt = "/bourse/compte/s-%s/positions"

	// Login response markers. The remote renders one page per outcome;
	// these substrings are stable across layouts.
	mfaMarker         = "/securisation/validation"
	badLoginMarker    = "identifiant ou votre mot de passe est invalide"
	loggedInMarker    = "/se-deconnecter"
	loginRedirectFrag = "/connexion"
)

// Client implements the BankClient interface against the Boursobank private
// web session. One Client carries one cookie-backed session; it must not be
// shared across unrelated users. Construct a fresh Client per request.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter

	initialized   bool
	authenticated bool
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithUserAgent sets the User-Agent header sent on every request
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Boursobank web client with its own cookie jar.
func NewClient(opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// fetch performs one rate-limited request and wraps network failures as
// TransportError. The caller owns the response body.
func (c *Client) fetch(ctx context.Context, op, method, reqURL string, body io.Reader, contentType string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug().Str("op", op).Str("method", method).Msg("Bourso request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Str("op", op).Dur("elapsed", time.Since(start)).Err(err).Msg("Bourso request failed")
		return nil, &TransportError{Op: op, Err: err}
	}

	c.logger.Debug().Str("op", op).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("Bourso response")
	return resp, nil
}

func readBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// landedOnLogin reports whether the (redirect-followed) response ended up
// back on the login flow, the remote's signal for an expired session.
func landedOnLogin(resp *http.Response) bool {
	return resp.Request != nil && resp.Request.URL != nil &&
		strings.Contains(resp.Request.URL.Path, loginRedirectFrag)
}

// InitSession performs the pre-login handshake: it fetches the connection
// page so the cookie jar holds a valid anonymous session. Calling it twice
// is harmless but wasteful.
func (c *Client) InitSession(ctx context.Context) error {
	resp, err := c.fetch(ctx, "init_session", http.MethodGet, c.baseURL+connexionPath, nil, "")
	if err != nil {
		return err
	}
	if _, err := readBody(resp); err != nil {
		return &TransportError{Op: "init_session", Err: err}
	}

	c.initialized = true
	return nil
}

// Login authenticates the session. It fetches the password page, transcribes
// the password against the session's virtual keypad, and submits the
// keystroke list with the page's challenge token. A transcription failure
// aborts before anything is submitted.
//
// The session flips to authenticated only after a fully received success
// response; an MFA demand leaves it initialized but not authenticated.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if !c.initialized {
		return fmt.Errorf("session not initialized: %w", ErrUnauthorized)
	}

	resp, err := c.fetch(ctx, "login_page", http.MethodGet, c.baseURL+passwordPath, nil, "")
	if err != nil {
		return err
	}
	page, err := readBody(resp)
	if err != nil {
		return &TransportError{Op: "login_page", Err: err}
	}

	keys, err := extractMatrixKeys(page)
	if err != nil {
		return err
	}
	token, err := extractChallengeToken(page)
	if err != nil {
		return err
	}

	strokes, err := passwordKeystrokes(keys, password)
	if err != nil {
		return err
	}
	strokesJSON, err := json.Marshal(strokes)
	if err != nil {
		return &MalformedPayloadError{Detail: "keystroke encoding", Err: err}
	}

	form := url.Values{
		"form[clientNumber]":          {username},
		"form[password]":              {string(strokesJSON)},
		"form[matrixRandomChallenge]": {token},
	}

	resp, err = c.fetch(ctx, "login_submit", http.MethodPost, c.baseURL+passwordPath,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	body, err := readBody(resp)
	if err != nil {
		return &TransportError{Op: "login_submit", Err: err}
	}

	switch {
	case strings.Contains(body, mfaMarker):
		c.logger.Info().Str("username", username).Msg("Login requires MFA")
		return ErrMfaRequired
	case strings.Contains(body, badLoginMarker):
		c.logger.Info().Str("username", username).Msg("Login rejected: invalid credentials")
		return ErrUnauthorized
	case strings.Contains(body, loggedInMarker):
		c.authenticated = true
		c.logger.Info().Str("username", username).Msg("Login succeeded")
		return nil
	}

	return &MalformedPayloadError{Detail: "unrecognized login response"}
}

// GetAccounts discovers the session's accounts from the summary page,
// optionally filtered by kind (models.AccountKindAny returns everything).
func (c *Client) GetAccounts(ctx context.Context, kind models.AccountKind) ([]models.Account, error) {
	if !c.authenticated {
		return nil, fmt.Errorf("session not authenticated: %w", ErrUnauthorized)
	}

	resp, err := c.fetch(ctx, "get_accounts", http.MethodGet, c.baseURL+"/", nil, "")
	if err != nil {
		return nil, err
	}
	if landedOnLogin(resp) {
		resp.Body.Close()
		c.authenticated = false
		return nil, fmt.Errorf("session expired: %w", ErrUnauthorized)
	}
	page, err := readBody(resp)
	if err != nil {
		return nil, &TransportError{Op: "get_accounts", Err: err}
	}

	accounts, err := extractAccounts(page)
	if err != nil {
		return nil, err
	}

	accounts = models.FilterAccounts(accounts, kind)
	c.logger.Debug().Int("count", len(accounts)).Str("kind", string(kind)).Msg("Accounts discovered")
	return accounts, nil
}

type ticksResponse struct {
	D models.Ticks `json:"d"`
}

// GetTicks retrieves the OHLCV series for a symbol. length is the number of
// samples and interval the remote's period selector (0 = daily). This is
// public market data; no authentication is required.
//
// The fetch is retried once on transient transport failure. No other
// operation retries.
func (c *Client) GetTicks(ctx context.Context, symbol string, length, interval int) (*models.Ticks, error) {
	reqURL := fmt.Sprintf("%s%s?symbol=%s&length=%d&period=%d",
		c.baseURL, ticksPath, url.QueryEscape(symbol), length, interval)

	ticks, err := c.fetchTicks(ctx, symbol, reqURL)
	var transient *TransportError
	if err != nil && errors.As(err, &transient) && ctx.Err() == nil {
		c.logger.Warn().Str("symbol", symbol).Err(err).Msg("Tick fetch failed, retrying once")
		ticks, err = c.fetchTicks(ctx, symbol, reqURL)
	}
	return ticks, err
}

func (c *Client) fetchTicks(ctx context.Context, symbol, reqURL string) (*models.Ticks, error) {
	resp, err := c.fetch(ctx, "get_ticks", http.MethodGet, reqURL, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &TransportError{Op: "get_ticks", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &SymbolNotFoundError{Symbol: symbol}
	}

	var payload ticksResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &SymbolNotFoundError{Symbol: symbol}
	}
	if len(payload.D.QuoteTab) == 0 {
		return nil, &SymbolNotFoundError{Symbol: symbol}
	}

	ticks := payload.D
	if ticks.Symbol == "" {
		ticks.Symbol = symbol
	}
	c.logger.Debug().Str("symbol", symbol).Int("samples", len(ticks.QuoteTab)).Msg("Ticks retrieved")
	return &ticks, nil
}

type orderRequest struct {
	Side     models.OrderSide `json:"side"`
	Symbol   string           `json:"symbol"`
	Quantity int              `json:"quantity"`
	Limit    *float64         `json:"limit,omitempty"`
}

type orderResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Order submits a trading order on a Trading-kind account previously
// obtained from GetAccounts. A failed or ambiguous submission is surfaced
// to the caller and never resubmitted: a silent retry risks a duplicate
// order.
func (c *Client) Order(ctx context.Context, side models.OrderSide, account *models.Account, symbol string, quantity int, limit *float64) error {
	if !c.authenticated {
		return fmt.Errorf("session not authenticated: %w", ErrUnauthorized)
	}
	if account == nil || account.Kind != models.AccountKindTrading {
		id := ""
		if account != nil {
			id = account.ID
		}
		return &AccountNotFoundError{ID: id}
	}
	if quantity <= 0 {
		return &OrderRejectedError{Reason: fmt.Sprintf("quantity must be positive, got %d", quantity)}
	}

	payload, err := json.Marshal(orderRequest{Side: side, Symbol: symbol, Quantity: quantity, Limit: limit})
	if err != nil {
		return &MalformedPayloadError{Detail: "order encoding", Err: err}
	}

	reqURL := c.baseURL + fmt.Sprintf(orderPathFmt, account.ID)
	resp, err := c.fetch(ctx, "order", http.MethodPost, reqURL, strings.NewReader(string(payload)), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if landedOnLogin(resp) {
		c.authenticated = false
		return fmt.Errorf("session expired: %w", ErrUnauthorized)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.authenticated = false
		return fmt.Errorf("session expired: %w", ErrUnauthorized)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		// Surfaced, never resubmitted: the order may or may not have been
		// placed on the remote side.
		return &TransportError{Op: "order", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return &MalformedPayloadError{Detail: fmt.Sprintf("order endpoint returned status %d", resp.StatusCode)}
	}

	var result orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return &MalformedPayloadError{Detail: "order response decoding", Err: err}
	}

	switch result.Status {
	case "ok", "accepted":
		c.logger.Info().Str("account", account.ID).Str("symbol", symbol).Str("side", string(side)).Int("quantity", quantity).Msg("Order accepted")
		return nil
	case "rejected":
		return &OrderRejectedError{Reason: result.Reason}
	}

	return &MalformedPayloadError{Detail: fmt.Sprintf("unrecognized order status %q", result.Status)}
}

// GetTradingSummary retrieves the position segments of a trading account.
// The remote may split one account across several segments; positions are
// returned as received, never deduplicated.
func (c *Client) GetTradingSummary(ctx context.Context, account *models.Account) ([]models.TradingSummary, error) {
	if !c.authenticated {
		return nil, fmt.Errorf("session not authenticated: %w", ErrUnauthorized)
	}
	if account == nil {
		return nil, &AccountNotFoundError{ID: ""}
	}

	reqURL := c.baseURL + fmt.Sprintf(summaryPathFmt, account.ID)
	resp, err := c.fetch(ctx, "get_trading_summary", http.MethodGet, reqURL, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if landedOnLogin(resp) {
		c.authenticated = false
		return nil, fmt.Errorf("session expired: %w", ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &MalformedPayloadError{Detail: fmt.Sprintf("summary endpoint returned status %d", resp.StatusCode)}
	}

	var summaries []models.TradingSummary
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		return nil, &MalformedPayloadError{Detail: "summary response decoding", Err: err}
	}

	c.logger.Debug().Str("account", account.ID).Int("segments", len(summaries)).Msg("Trading summary retrieved")
	return summaries, nil
}

// Ensure Client implements BankClient
var _ interfaces.BankClient = (*Client)(nil)
