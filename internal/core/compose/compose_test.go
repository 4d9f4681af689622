package compose

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crashrelay/internal/core/event"
	"crashrelay/internal/core/report"
	"crashrelay/internal/core/report/reporttest"
	perr "crashrelay/internal/platform/errors"
)

func sampleReport(t *testing.T) report.Report {
	t.Helper()
	r, err := report.DecodeBytes(reporttest.Sample())
	require.NoError(t, err)
	return r
}

func TestComposeSample(t *testing.T) {
	ev, err := Compose(sampleReport(t))
	require.NoError(t, err)

	require.Len(t, ev.Exception, 1)
	exc := ev.Exception[0]
	assert.Equal(t, "E1, E2", exc.Type)
	assert.Equal(t, "CommonModule.Sales", exc.Module)
	assert.Equal(t, "Boom", exc.Value)
	require.NotNil(t, exc.Stacktrace)
	assert.Equal(t, []event.Frame{{Function: "CommonModule.Sales.Module", Line: 118, ContextLine: `Raise "Boom";`, InApp: true}}, exc.Stacktrace.Frames)

	assert.Equal(t, "11.5.7.123", ev.Release)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), ev.Timestamp)
	assert.Equal(t, event.SDK{Name: "sentry.bsl", Version: "0.0.1"}, ev.SDK)
	assert.Equal(t, "Other", ev.Platform)

	d := ev.Contexts.Device
	assert.Equal(t, "Desktop", d.Family)
	assert.Equal(t, "x86_64", d.Arch)
	assert.Equal(t, "0d5b5a4e-1111-2222-3333-444455556666", d.Name)
	assert.Equal(t, json.Number("16296"), d.MemorySize)
	assert.Equal(t, json.Number("7012"), d.FreeMemory)

	assert.Equal(t, event.OSContext{Name: "Windows", Version: "10.0.19042"}, ev.Contexts.OS)
	assert.Equal(t, "8.3.20.1710", ev.Contexts.Runtime.Version)
	assert.Equal(t, "TradeManagement", ev.Contexts.App.Identifier)
	assert.Equal(t, "3c1b7e", ev.Contexts.App.Build)

	assert.Equal(t, event.UserIdentity{ID: "Ivanov", Username: "Ivanov"}, ev.User)

	require.Len(t, ev.Extra, 9)
	assert.Equal(t, false, ev.Extra["ChangeEnabled"])
	assert.Equal(t, "PostgreSQL", ev.Extra["DBMS"])
	assert.Equal(t, "", ev.Extra["DataSeparation"])
	for _, k := range event.ExtraKeys {
		assert.Contains(t, ev.Extra, k)
	}

	require.Len(t, ev.Breadcrumbs, 1)
	assert.Equal(t, "error", ev.Breadcrumbs[0].Level)
	assert.Equal(t, "Event: _$Data$_.Post\nMeta: Document.Sales\nData: Sales 00042\nComment:\nPosting failed", ev.Breadcrumbs[0].Message)
}

func TestComposeRequiredPaths(t *testing.T) {
	paths := []string{
		"clientInfo.systemInfo.clientID",
		"clientInfo.systemInfo.processor",
		"clientInfo.systemInfo.fullRAM",
		"clientInfo.systemInfo.freeRAM",
		"clientInfo.systemInfo.osVersion",
		"clientInfo.platformType",
		"clientInfo.appName",
		"serverInfo.appVersion",
		"serverInfo.dbms",
		"serverInfo.type",
		"configInfo.name",
		"configInfo.description",
		"configInfo.version",
		"configInfo.hash",
		"configInfo.compatibilityMode",
		"configInfo.changeEnabled",
		"sessionInfo.configurationInterfaceLanguageCode",
		"sessionInfo.platformInterfaceLanguageCode",
		"sessionInfo.localeCode",
		"sessionInfo.dataSeparation",
		"infoBaseInfo.localeCode",
		"errorInfo.applicationErrorInfo",
		"time",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			r, err := report.DecodeBytes(reporttest.Without(t, p))
			require.NoError(t, err)

			ev, err := Compose(r)
			require.Error(t, err)
			assert.Equal(t, perr.ErrorCodeMissingField, perr.CodeOf(err))
			assert.Equal(t, p, perr.FieldOf(err))
			assert.Empty(t, ev.Exception)
		})
	}
}

func TestComposeOptionalPaths(t *testing.T) {
	for _, p := range []string{
		"sessionInfo.userName",
		"errorInfo.userDescription",
		"errorInfo.applicationErrorInfo.errors",
		"errorInfo.applicationErrorInfo.stack",
		"additionalData",
	} {
		t.Run(p, func(t *testing.T) {
			r, err := report.DecodeBytes(reporttest.Without(t, p))
			require.NoError(t, err)
			_, err = Compose(r)
			assert.NoError(t, err)
		})
	}
}

func TestComposeWithoutStack(t *testing.T) {
	r, err := report.DecodeBytes(reporttest.Without(t, "errorInfo.applicationErrorInfo.stack"))
	require.NoError(t, err)

	ev, err := Compose(r)
	require.NoError(t, err)
	assert.Nil(t, ev.Exception[0].Stacktrace)

	raw, err := json.Marshal(ev.Exception[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "stacktrace")
}

func TestComposeDoesNotMutate(t *testing.T) {
	tree := reporttest.Tree(t)
	before := reporttest.Encode(t, tree)

	_, err := Compose(report.FromMap(tree))
	require.NoError(t, err)

	assert.JSONEq(t, string(before), string(reporttest.Encode(t, tree)))
}

func TestComposeDeterministic(t *testing.T) {
	r := sampleReport(t)
	a, err := Compose(r)
	require.NoError(t, err)
	b, err := Compose(r)
	require.NoError(t, err)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.Equal(t, ja, jb)
}

func TestFeedback(t *testing.T) {
	r := sampleReport(t)
	fb, ok := Feedback(r, "abc123", "Ivanov")
	require.True(t, ok)
	assert.Equal(t, event.UserFeedback{EventID: "abc123", Name: "Ivanov", Comments: "Pressed Post and it crashed"}, fb)

	r, err := report.DecodeBytes(reporttest.Without(t, "errorInfo.userDescription"))
	require.NoError(t, err)
	_, ok = Feedback(r, "abc123", "Ivanov")
	assert.False(t, ok)

	tree := reporttest.Tree(t)
	tree["errorInfo"].(map[string]any)["userDescription"] = ""
	_, ok = Feedback(report.FromMap(tree), "abc123", "Ivanov")
	assert.False(t, ok)
}
