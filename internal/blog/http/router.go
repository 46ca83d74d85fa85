package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/inkwellhq/inkwell/pkg/slogx"

	_ "github.com/inkwellhq/inkwell/api/blog" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AccountService *service.AccountService
	ResetService   *service.ResetService
	PostService    *service.PostService
	CommentService *service.CommentService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerPosts()
	r.registerComments()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			Inkwell API
//	@version		0.1.0
//	@description	Social-blogging backend: accounts with lockout and password
//	@description	reset, posts, comments and likes. Free-text content is
//	@description	encrypted at rest.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	accounts := &AccountsHandler{AccountService: r.AccountService}
	reset := &ResetHandler{ResetService: r.ResetService}

	r.Mux.Handle("POST /v1/accounts/signup", http.HandlerFunc(accounts.HandleSignup))
	r.Mux.Handle("POST /v1/accounts/signin", http.HandlerFunc(accounts.HandleSignin))

	r.Mux.Handle("POST /v1/accounts/forgot-password", http.HandlerFunc(reset.HandleForgot))
	// The verify route is a GET because the link lands straight from the
	// user's mail client.
	r.Mux.Handle("GET /v1/accounts/verifyReset", http.HandlerFunc(reset.HandleVerify))
	r.Mux.Handle("PATCH /v1/accounts/reset-password", http.HandlerFunc(reset.HandleReset))
}

func (r *Router) registerPosts() {
	h := &PostsHandler{PostService: r.PostService}
	authn := httpx.AuthnMiddleware(r.verifier)

	// Listing is the only public post endpoint.
	r.Mux.Handle("GET /v1/posts", http.HandlerFunc(h.HandleList))

	r.Mux.Handle("POST /v1/posts", httpx.Chain(http.HandlerFunc(h.HandleCreate), authn))
	r.Mux.Handle("GET /v1/posts/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), authn))
	r.Mux.Handle("PATCH /v1/posts/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), authn))
	r.Mux.Handle("DELETE /v1/posts/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), authn))
	r.Mux.Handle("POST /v1/posts/{id}/like", httpx.Chain(http.HandlerFunc(h.HandleLike), authn))
}

func (r *Router) registerComments() {
	h := &CommentsHandler{CommentService: r.CommentService}
	authn := httpx.AuthnMiddleware(r.verifier)

	r.Mux.Handle("GET /v1/posts/{id}/comments", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("POST /v1/posts/{id}/comments", httpx.Chain(http.HandlerFunc(h.HandleCreate), authn))
	r.Mux.Handle("POST /v1/comments/{id}/replies", httpx.Chain(http.HandlerFunc(h.HandleReply), authn))
	r.Mux.Handle("PATCH /v1/comments/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), authn))
	r.Mux.Handle("DELETE /v1/comments/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), authn))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
