package graph

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"github.com/tablebell/restaurant-api/internal/pkg/httputil"
)

var (
	errBadRequest   = errors.New("request body must be a JSON object with a query")
	errBodyTooLarge = errors.New("request body too large")
	errEmptyQuery   = errors.New("query is required")
	errMutationGET  = errors.New("mutations must be sent with POST")
)

var requestErrors = []httputil.ErrorMapping{
	{Error: errBodyTooLarge, Status: http.StatusRequestEntityTooLarge},
	{Error: errBadRequest, Status: http.StatusBadRequest},
	{Error: errEmptyQuery, Status: http.StatusBadRequest},
	{Error: errMutationGET, Status: http.StatusMethodNotAllowed},
}

// HandlerConfig configures the HTTP transport of the schema.
type HandlerConfig struct {
	MaxBodyBytes int64
	Playground   bool
}

// Handler serves the schema over HTTP.
type Handler struct {
	server *Server
	cfg    HandlerConfig
}

// NewHandler creates a GraphQL HTTP handler.
func NewHandler(server *Server, cfg HandlerConfig) *Handler {
	return &Handler{server: server, cfg: cfg}
}

// RegisterRoutes registers the GraphQL endpoint and, when enabled, the playground page.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/graphql", h.Post)
	r.Get("/graphql", h.Get)
	if h.cfg.Playground {
		r.Get("/playground", h.Playground)
	}
}

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Post executes a document sent as a JSON body.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	if h.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
	}

	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.HandleError(r.Context(), w, errBodyTooLarge, requestErrors)
			return
		}
		httputil.HandleError(r.Context(), w, errBadRequest, requestErrors)
		return
	}

	h.execute(w, r, req)
}

// Get executes a document passed in the query string. Mutations are refused.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := graphQLRequest{
		Query:         q.Get("query"),
		OperationName: q.Get("operationName"),
	}
	if raw := q.Get("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			httputil.HandleError(r.Context(), w, errBadRequest, requestErrors)
			return
		}
	}

	if isMutation(req.Query, req.OperationName) {
		w.Header().Set("Allow", http.MethodPost)
		httputil.HandleError(r.Context(), w, errMutationGET, requestErrors)
		return
	}

	h.execute(w, r, req)
}

// isMutation reports whether the operation selected by name is a mutation.
// Unparsable documents report false and fail in the executor instead.
func isMutation(query, operationName string) bool {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return false
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if op.Operation == ast.OperationTypeMutation {
			return true
		}
	}
	return false
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, req graphQLRequest) {
	if req.Query == "" {
		httputil.HandleError(r.Context(), w, errEmptyQuery, requestErrors)
		return
	}

	result := h.server.Execute(r.Context(), req.Query, req.OperationName, req.Variables)
	httputil.JSON(w, http.StatusOK, result)
}

// Playground serves a GraphiQL page pointed at /graphql.
func (h *Handler) Playground(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Restaurant API</title>
    <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css">
</head>
<body style="margin: 0;">
    <div id="graphiql" style="height: 100vh;"></div>
    <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
    <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
    <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
    <script>
        const fetcher = GraphiQL.createFetcher({ url: "/graphql" });
        ReactDOM.createRoot(document.getElementById("graphiql"))
            .render(React.createElement(GraphiQL, { fetcher: fetcher }));
    </script>
</body>
</html>`))
}
