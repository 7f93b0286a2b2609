package api

import (
	"net/http"
	"strings"

	"jta.service/internal/api/handler"
	"jta.service/internal/api/middleware"
	"jta.service/internal/core"
	"jta.service/internal/core/model"
	"jta.service/pkg/apperror"

	"github.com/gorilla/mux"
)

const apiPrefix = "/jta/api"

// Services are the core services the routes are bound to.
type Services struct {
	Auth     *core.AuthService
	Staff    *core.RecordService[model.Staff]
	Shifts   *core.RecordService[model.Shift]
	Expenses *core.RecordService[model.Expense]
}

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(s Services) *mux.Router {
	authHandler := handler.AuthHandler{Service: s.Auth}
	staff := handler.RecordHandler[model.Staff]{Service: s.Staff}
	shifts := handler.RecordHandler[model.Shift]{Service: s.Shifts}
	expenses := handler.RecordHandler[model.Expense]{Service: s.Expenses}

	r := mux.NewRouter()
	r.Use(middleware.RequestContext, middleware.AccessLog)
	r.NotFoundHandler = middleware.RequestContext(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = middleware.RequestContext(http.HandlerFunc(methodNotAllowed))

	r.HandleFunc("/", handler.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	r.HandleFunc("/token", authHandler.Login).Methods(http.MethodPost)

	api := r.PathPrefix(apiPrefix).Subrouter()
	api.Use(middleware.Auth(s.Auth))

	api.HandleFunc("/staff", staff.Create).Methods(http.MethodPost)
	api.HandleFunc("/staff", staff.List).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffID}", staff.Get).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffID}", staff.Update).Methods(http.MethodPut)
	api.HandleFunc("/staff/{staffID}", staff.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/shifts", shifts.Create).Methods(http.MethodPost)
	api.HandleFunc("/shifts", shifts.List).Methods(http.MethodGet)
	api.HandleFunc("/shifts/{staffID}/{startDate}", shifts.Get).Methods(http.MethodGet)
	api.HandleFunc("/shifts/{staffID}/{startDate}", shifts.Update).Methods(http.MethodPut)
	api.HandleFunc("/shifts/{staffID}/{startDate}", shifts.Delete).Methods(http.MethodDelete)

	// Expenses are created on the singular path and listed on the plural one;
	// both spellings are accepted everywhere.
	for _, base := range []string{"/expense", "/expenses"} {
		api.HandleFunc(base, expenses.Create).Methods(http.MethodPost)
		api.HandleFunc(base, expenses.List).Methods(http.MethodGet)
		api.HandleFunc(base+"/{expenseID}/{date}", expenses.Get).Methods(http.MethodGet)
		api.HandleFunc(base+"/{expenseID}/{date}", expenses.Update).Methods(http.MethodPut)
		api.HandleFunc(base+"/{expenseID}/{date}", expenses.Delete).Methods(http.MethodDelete)
	}

	r.HandleFunc("/openapi.json", handler.OpenAPI(describe(r))).Methods(http.MethodGet)

	return r
}

// describe builds the OpenAPI document from the registered routes.
func describe(r *mux.Router) *handler.Document {
	doc := handler.NewDocument(handler.ServiceInfo)
	// the walk function never fails
	_ = r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			// subrouter prefixes carry no methods
			return nil
		}
		for _, m := range methods {
			doc.AddOperation(m, path, strings.HasPrefix(path, apiPrefix))
		}
		return nil
	})
	return doc
}

func notFound(w http.ResponseWriter, r *http.Request) {
	handler.WriteJSON(w, r, http.StatusNotFound, map[string]string{"detail": "Not Found"})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	handler.WriteError(w, r, apperror.New("METHOD_NOT_ALLOWED", "Method Not Allowed", http.StatusMethodNotAllowed))
}
