package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/crudapi/internal/adapters/http/api"
	app "github.com/okian/crudapi/internal/app"
	"github.com/okian/crudapi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// failingDeps rejects every acknowledgment.
type failingDeps struct{}

func (failingDeps) Root(context.Context) model.RootStatus { return model.RootStatus{} }

func (failingDeps) Acknowledge(context.Context, model.Operation) (model.Ack, error) {
	return model.Ack{}, errors.New("boom")
}

func (failingDeps) AcknowledgeItem(context.Context, model.Operation, *model.ItemPayload) (model.ItemAck, error) {
	return model.ItemAck{}, errors.New("boom")
}

func newMux(opts ...api.ServerOption) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(app.New(), opts...).Register(context.Background(), mux)
	return mux
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeBody(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		mux := newMux()

		Convey("When calling GET /", func() {
			w := serve(mux, http.MethodGet, "/", "")

			Convey("Then it should return exactly the greeting", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"message":"FastAPI CRUD API is running"}`)
			})
		})

		Convey("When calling GET /crud", func() {
			w := serve(mux, http.MethodGet, "/crud", "")

			Convey("Then it should acknowledge without data", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual,
					`{"operation":"GET","message":"GET operation performed successfully","status":"success"}`)
			})
		})

		Convey("When calling DELETE /crud", func() {
			w := serve(mux, http.MethodDelete, "/crud", "")
			body := decodeBody(w)

			Convey("Then it should acknowledge without a data field", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["operation"], ShouldEqual, "DELETE")
				So(body["message"], ShouldEqual, "DELETE operation performed successfully")
				So(body["status"], ShouldEqual, "success")
				_, hasData := body["data"]
				So(hasData, ShouldBeFalse)
			})
		})

		Convey("When calling DELETE /crud with a body", func() {
			w := serve(mux, http.MethodDelete, "/crud", `not json at all`)

			Convey("Then the body should be ignored", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When calling POST /crud with a full payload", func() {
			w := serve(mux, http.MethodPost, "/crud", `{"name":"x","description":"y"}`)

			Convey("Then data should echo the payload", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual,
					`{"operation":"POST","message":"POST operation performed successfully","data":{"name":"x","description":"y"},"status":"success"}`)
			})
		})

		Convey("When calling POST /crud without a body", func() {
			w := serve(mux, http.MethodPost, "/crud", "")
			body := decodeBody(w)

			Convey("Then data should be null", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				data, hasData := body["data"]
				So(hasData, ShouldBeTrue)
				So(data, ShouldBeNil)
			})
		})

		Convey("When calling POST /crud with a whitespace body", func() {
			w := serve(mux, http.MethodPost, "/crud", "  \n ")

			Convey("Then it should be treated as no body", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(w)["data"], ShouldBeNil)
			})
		})

		Convey("When calling POST /crud with a JSON null body", func() {
			w := serve(mux, http.MethodPost, "/crud", "null")

			Convey("Then data should be null", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(w)["data"], ShouldBeNil)
			})
		})

		Convey("When calling POST /crud with only a name", func() {
			w := serve(mux, http.MethodPost, "/crud", `{"name":"x"}`)

			Convey("Then description should be null", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"data":{"name":"x","description":null}`)
			})
		})

		Convey("When calling POST /crud with an empty object", func() {
			w := serve(mux, http.MethodPost, "/crud", `{}`)

			Convey("Then both fields should be null", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"data":{"name":null,"description":null}`)
			})
		})

		Convey("When calling POST /crud with unknown fields", func() {
			w := serve(mux, http.MethodPost, "/crud", `{"name":"x","extra":true}`)

			Convey("Then unknown fields should be dropped", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldNotContainSubstring, "extra")
			})
		})

		Convey("When calling PUT and PATCH with the same body as POST", func() {
			payload := `{"name":"same","description":"body"}`
			post := decodeBody(serve(mux, http.MethodPost, "/crud", payload))
			put := decodeBody(serve(mux, http.MethodPut, "/crud", payload))
			patch := decodeBody(serve(mux, http.MethodPatch, "/crud", payload))

			Convey("Then data should be identical and only the operation should differ", func() {
				So(put["data"], ShouldResemble, post["data"])
				So(patch["data"], ShouldResemble, post["data"])
				So(post["operation"], ShouldEqual, "POST")
				So(put["operation"], ShouldEqual, "PUT")
				So(patch["operation"], ShouldEqual, "PATCH")
				So(put["message"], ShouldEqual, "PUT operation performed successfully")
				So(patch["message"], ShouldEqual, "PATCH operation performed successfully")
				So(put["status"], ShouldEqual, "success")
			})
		})

		Convey("When calling an unsupported method on /crud", func() {
			w := serve(mux, http.MethodOptions, "/crud", "")

			Convey("Then it should be rejected by the router", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When calling HEAD on the GET routes", func() {
			crud := serve(mux, http.MethodHead, "/crud", "")
			root := serve(mux, http.MethodHead, "/", "")

			Convey("Then both should answer 405 with an Allow header", func() {
				So(crud.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(crud.Header().Get("Allow"), ShouldEqual, "DELETE, GET, PATCH, POST, PUT")
				So(root.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(root.Header().Get("Allow"), ShouldEqual, "GET")
			})
		})

		Convey("When calling an unknown path", func() {
			w := serve(mux, http.MethodGet, "/unknown", "")

			Convey("Then it should return 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When calling the health endpoint", func() {
			w := serve(mux, http.MethodGet, "/healthz", "")

			Convey("Then it should report ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(w)["status"], ShouldEqual, "ok")
			})
		})

		Convey("When calling the metrics endpoint after traffic", func() {
			serve(mux, http.MethodGet, "/crud", "")
			w := serve(mux, http.MethodGet, "/metrics", "")

			Convey("Then it should expose request counters", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "crudapi_http_requests_total")
				So(w.Body.String(), ShouldContainSubstring, `operation="GET"`)
			})
		})
	})
}

func TestServer_MalformedBodies(t *testing.T) {
	Convey("Given a new API server", t, func() {
		mux := newMux()

		cases := map[string]string{
			"syntax error":       `{"name":`,
			"broken token":       `{name: x}`,
			"array document":     `[1,2]`,
			"string document":    `"hello"`,
			"numeric field":      `{"name":5}`,
			"trailing garbage":   `{"name":"x"} trailing`,
			"two documents":      `{"name":"x"}{"name":"y"}`,
			"object description": `{"description":{"a":1}}`,
		}

		for name, body := range cases {
			Convey("When posting a body with "+name, func() {
				for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch} {
					w := serve(mux, method, "/crud", body)

					So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
					resp := decodeBody(w)
					So(resp["code"], ShouldEqual, "unprocessable_entity")
					So(resp["message"], ShouldNotBeEmpty)
				}
			})
		}
	})
}

func TestServer_BodyLimit(t *testing.T) {
	Convey("Given a server with a body cap", t, func() {
		mux := newMux(api.WithMaxBodyBytes(32))

		Convey("When the body fits", func() {
			w := serve(mux, http.MethodPost, "/crud", `{"name":"x"}`)

			Convey("Then it should be accepted", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the body exceeds the cap", func() {
			big := `{"name":"` + strings.Repeat("a", 64) + `"}`
			w := serve(mux, http.MethodPost, "/crud", big)

			Convey("Then it should be rejected as too large", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
				So(decodeBody(w)["code"], ShouldEqual, "payload_too_large")
			})
		})
	})

	Convey("Given a server without a body cap", t, func() {
		mux := newMux()

		Convey("When a very long name is posted", func() {
			long := strings.Repeat("n", 1<<16)
			w := serve(mux, http.MethodPost, "/crud", `{"name":"`+long+`"}`)

			Convey("Then it should be echoed unchanged", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, long)
			})
		})
	})
}

func TestServer_Idempotence(t *testing.T) {
	Convey("Given a new API server", t, func() {
		mux := newMux()

		Convey("When the same request is repeated", func() {
			for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
				body := ""
				if method != http.MethodGet && method != http.MethodDelete {
					body = `{"name":"x","description":"y"}`
				}
				first := serve(mux, method, "/crud", body).Body.Bytes()
				second := serve(mux, method, "/crud", body).Body.Bytes()

				So(bytes.Equal(first, second), ShouldBeTrue)
			}
		})
	})
}

func TestServer_DependencyFailures(t *testing.T) {
	Convey("Given a server whose dependencies fail", t, func() {
		mux := http.NewServeMux()
		api.NewServer(failingDeps{}).Register(context.Background(), mux)

		Convey("When calling any CRUD route", func() {
			for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
				w := serve(mux, method, "/crud", "")

				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeBody(w)["code"], ShouldEqual, "internal_error")
			}
		})
	})
}

func TestServer_RegisterNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("Then registering should panic", func() {
			So(func() {
				api.NewServer(app.New()).Register(context.Background(), nil)
			}, ShouldPanic)
		})
	})
}

func TestKindErrors(t *testing.T) {
	Convey("Given kind errors", t, func() {
		cause := errors.New("cause")

		Convey("When wrapping a cause", func() {
			err := api.WrapKind("api.test", api.ErrUnprocessable, cause)

			Convey("Then both the kind and the cause should match", func() {
				So(errors.Is(err, api.ErrUnprocessable), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "api.test: unprocessable entity: cause")
			})
		})

		Convey("When creating a bare kind", func() {
			err := api.NewKind("api.test", api.ErrInternal)

			Convey("Then only the kind should match", func() {
				So(errors.Is(err, api.ErrInternal), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeFalse)
				So(err.Error(), ShouldEqual, "api.test: internal error")
			})
		})

		Convey("When a method kind reaches the client", func() {
			w := httptest.NewRecorder()
			mux := newMux()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/crud", nil))

			Convey("Then it should carry the method_not_allowed code", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Body.String(), ShouldContainSubstring, `"code":"method_not_allowed"`)
				So(w.Body.String(), ShouldContainSubstring, "api.crud_get: method not allowed")
			})
		})
	})
}
