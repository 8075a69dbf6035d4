package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Connector opens gateway sessions. Open is called once per fetch.
type Connector interface {
	Open() (Fetcher, error)
}

// Options configures a GitHubConnector.
type Options struct {
	// GraphQLURL is the full GraphQL endpoint URL.
	GraphQLURL string
	// RESTURL is the REST API base URL.
	RESTURL string
	// Token is an optional bearer token. Requests are unauthenticated without it.
	Token string
	// Timeout bounds every single API call.
	Timeout time.Duration
	// RateLimit is the maximum number of requests per second, shared by all sessions.
	// Zero disables client-side throttling.
	RateLimit float64
}

// secondaryRateLimitSleep is the longest the secondary rate limit waiter may
// sleep before re-sending. Zero surfaces rate limited responses as failures.
const secondaryRateLimitSleep time.Duration = 0

// GitHubConnector builds GitHubGateway sessions sharing one request limiter.
type GitHubConnector struct {
	opts    Options
	restURL *url.URL
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ Connector = (*GitHubConnector)(nil)

// NewGitHubConnector is a constructor that creates a new instance of GitHubConnector.
func NewGitHubConnector(opts Options, logger *zap.Logger) (*GitHubConnector, error) {
	if opts.GraphQLURL == "" {
		return nil, errors.New("graphql url cannot be empty")
	}
	if opts.Timeout <= 0 {
		return nil, errors.New("timeout must be greater than 0")
	}
	if !strings.HasSuffix(opts.RESTURL, "/") {
		opts.RESTURL += "/"
	}
	restURL, err := url.Parse(opts.RESTURL)
	if err != nil {
		return nil, fmt.Errorf("invalid rest url: %w", err)
	}

	limit := rate.Inf
	burst := 1
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
		burst = max(1, int(opts.RateLimit))
	}

	return &GitHubConnector{
		opts:    opts,
		restURL: restURL,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}, nil
}

// Open creates a session with its own transport. The caller must Close it.
func (c *GitHubConnector) Open() (Fetcher, error) {
	base := http.DefaultTransport.(*http.Transport).Clone()
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(base,
		github_ratelimit.WithSingleSleepLimit(secondaryRateLimitSleep, func(*github_ratelimit.CallbackContext) {
			c.logger.Warn("github secondary rate limit hit, not waiting")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var rt http.RoundTripper = rateLimitWaiter
	if c.opts.Token != "" {
		rt = &oauth2.Transport{
			Base:   rt,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.opts.Token}),
		}
	}
	httpClient := &http.Client{
		Transport: &throttledTransport{base: rt, limiter: c.limiter},
	}

	restClient := github.NewClient(httpClient)
	restURL := *c.restURL
	restClient.BaseURL = &restURL

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: githubv4.NewEnterpriseClient(c.opts.GraphQLURL, httpClient),
		transport:     base,
		timeout:       c.opts.Timeout,
		logger:        c.logger,
	}, nil
}
