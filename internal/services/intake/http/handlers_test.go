package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "crashrelay/internal/platform/errors"
	phttp "crashrelay/internal/platform/net/http"
	kit "crashrelay/internal/platform/testkit"
	"crashrelay/internal/services/intake/domain"
)

type fakeSvc struct {
	got     []byte
	res     domain.PushResult
	err     error
	recent  []domain.Receipt
	recentE error
	limit   int
}

func (f *fakeSvc) Push(_ context.Context, archive io.Reader) (domain.PushResult, error) {
	b, err := io.ReadAll(archive)
	if err != nil {
		return domain.PushResult{}, err
	}
	f.got = b
	return f.res, f.err
}

func (f *fakeSvc) Directive() domain.Directive {
	return domain.Directive{NeedSendReport: true, UserMessage: "", DumpType: 1}
}

func (f *fakeSvc) Recent(_ context.Context, in domain.RecentInput) ([]domain.Receipt, error) {
	f.limit = in.Limit
	return f.recent, f.recentE
}

func newServer(t *testing.T, svc *fakeSvc, maxUpload int64) *httptest.Server {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	d := Deps{Svc: svc, MaxUpload: maxUpload}
	RegisterClient(r, d)
	r.Route("/api/v1/intake", func(sub phttp.Router) { Register(sub, d) })
	srv := httptest.NewServer(r.Mux())
	t.Cleanup(srv.Close)
	return srv
}

func multipartBody(t *testing.T, field string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "report.zip")
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       perr.ErrorCode  `json:"code"`
	Field      string          `json:"field"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}

func decode(t *testing.T, res *http.Response) envelope {
	t.Helper()
	defer res.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	return env
}

func TestNewHandlers_PanicsWithoutService(t *testing.T) {
	kit.MustPanic(t, func() { newHandlers(Deps{}) })
}

func TestAlive(t *testing.T) {
	srv := newServer(t, &fakeSvc{}, 0)

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, strings.HasPrefix(res.Header.Get("Content-Type"), "text/plain"))
	assert.Equal(t, "alive", string(body))
}

func TestGetInfo_RawDirective(t *testing.T) {
	srv := newServer(t, &fakeSvc{}, 0)

	res, err := http.Post(srv.URL+"/api/getInfo", "application/json", nil)
	require.NoError(t, err)
	defer res.Body.Close()

	var got map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, map[string]any{"needSendReport": true, "userMessage": "", "dumpType": float64(1)}, got)
}

func TestPushReport_Success(t *testing.T) {
	svc := &fakeSvc{res: domain.PushResult{EventID: "evt-1", Attachments: []string{"report.json"}}}
	srv := newServer(t, svc, 0)

	body, ctype := multipartBody(t, FormField, []byte("zip bytes"))
	res, err := http.Post(srv.URL+"/api/pushReport", ctype, body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	env := decode(t, res)
	var data domain.PushResult
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "evt-1", data.EventID)
	assert.Equal(t, []byte("zip bytes"), svc.got)
}

func TestPushReport_ClientErrors(t *testing.T) {
	cases := []struct {
		name   string
		req    func(t *testing.T) (io.Reader, string)
		max    int64
		status int
		field  string
		msg    string
	}{
		{
			name: "missing field",
			req: func(t *testing.T) (io.Reader, string) {
				return multipartBody(t, "other", []byte("x"))
			},
			status: http.StatusBadRequest,
			field:  FormField,
			msg:    `missing multipart field "report"`,
		},
		{
			name: "not multipart",
			req: func(*testing.T) (io.Reader, string) {
				return strings.NewReader("{}"), "application/json"
			},
			status: http.StatusBadRequest,
			msg:    "malformed multipart upload",
		},
		{
			name: "too large",
			req: func(t *testing.T) (io.Reader, string) {
				return multipartBody(t, FormField, bytes.Repeat([]byte("a"), 4096))
			},
			max:    512,
			status: http.StatusBadRequest,
			msg:    "upload exceeds 512 bytes",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeSvc{}
			srv := newServer(t, svc, tc.max)

			body, ctype := tc.req(t)
			res, err := http.Post(srv.URL+"/api/pushReport", ctype, body)
			require.NoError(t, err)

			assert.Equal(t, tc.status, res.StatusCode)
			env := decode(t, res)
			assert.Equal(t, perr.ErrorCodeValidation, env.Code)
			assert.Equal(t, tc.field, env.Field)
			assert.Contains(t, env.Error, tc.msg)
			assert.Nil(t, svc.got, "service must not be called")
		})
	}
}

func TestPushReport_ServiceErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{perr.MissingField("clientInfo.platformType"), http.StatusUnprocessableEntity},
		{perr.JSONErrf("report.json is not valid JSON"), http.StatusBadRequest},
		{perr.Upstreamf("flush timed out"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		srv := newServer(t, &fakeSvc{err: tc.err}, 0)
		body, ctype := multipartBody(t, FormField, []byte("zip"))
		res, err := http.Post(srv.URL+"/api/pushReport", ctype, body)
		require.NoError(t, err)

		assert.Equal(t, tc.status, res.StatusCode, tc.err.Error())
		env := decode(t, res)
		assert.Equal(t, perr.CodeOf(tc.err), env.Code)
		assert.Equal(t, perr.FieldOf(tc.err), env.Field)
	}
}

func TestRecent(t *testing.T) {
	svc := &fakeSvc{recent: []domain.Receipt{{RequestID: "r1", Outcome: domain.OutcomeSent}}}
	srv := newServer(t, svc, 0)

	res, err := http.Get(srv.URL + "/api/v1/intake/recent?limit=5")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	env := decode(t, res)
	var data RecentResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 5, svc.limit)
	assert.Equal(t, 5, data.Limit)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "r1", data.Items[0].RequestID)
}

func TestRecent_Errors(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		svcErr error
		status int
		field  string
	}{
		{name: "not an integer", query: "?limit=abc", status: http.StatusUnprocessableEntity, field: "limit"},
		{name: "out of range", query: "?limit=501", status: http.StatusBadRequest, field: "limit"},
		{name: "ledger disabled", svcErr: perr.Unavailablef("intake ledger is disabled"), status: http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newServer(t, &fakeSvc{recentE: tc.svcErr}, 0)
			res, err := http.Get(srv.URL + "/api/v1/intake/recent" + tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.status, res.StatusCode)
			assert.Equal(t, tc.field, decode(t, res).Field)
		})
	}
}
