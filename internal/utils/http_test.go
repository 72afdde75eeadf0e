package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestExtractIDFromParams(t *testing.T) {
	testCases := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "Basic date",
			id:   "20240103",
			want: "20240103",
		},
		{
			name: "With JSON extension",
			id:   "20240103.json",
			want: "20240103",
		},
		{
			name: "With multiple dots",
			id:   "R1.express.json",
			want: "R1.express",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := httprouter.New()

			var result string
			router.HandlerFunc(http.MethodGet, "/api/test/:id", func(w http.ResponseWriter, r *http.Request) {
				result = ExtractIDFromParams(r, "id")
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/test/"+tc.id, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.want, result, "ExtractIDFromParams should correctly extract and clean the ID")
		})
	}
}

func TestExtractIDFromParams_MissingParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	assert.Empty(t, ExtractIDFromParams(req, "id"))
}
