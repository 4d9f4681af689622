// Package compose assembles the canonical ErrorEvent from a decoded report
// Composition is all-or-nothing: a missing required path yields no event
package compose

import (
	"crashrelay/internal/core/event"
	"crashrelay/internal/core/fields"
	"crashrelay/internal/core/report"
)

// extraPaths binds each extra attribute to its report path
var extraPaths = map[string]string{
	"CompatibilityMode":                  "configInfo.compatibilityMode",
	"ChangeEnabled":                      "configInfo.changeEnabled",
	"DBMS":                               "serverInfo.dbms",
	"ServerType":                         "serverInfo.type",
	"ConfigurationInterfaceLanguageCode": "sessionInfo.configurationInterfaceLanguageCode",
	"PlatformInterfaceLanguageCode":      "sessionInfo.platformInterfaceLanguageCode",
	"LocaleCode":                         "sessionInfo.localeCode",
	"InfoBaseLocaleCode":                 "infoBaseInfo.localeCode",
	"DataSeparation":                     fields.PathDataSep,
}

// values collects required lookups and keeps the first failure
type values struct {
	r   report.Report
	err error
}

func (v *values) get(path string) any {
	if v.err != nil {
		return nil
	}
	x, err := v.r.Value(path)
	if err != nil {
		v.err = err
	}
	return x
}

// Compose builds the single ErrorEvent for r
func Compose(r report.Report) (event.ErrorEvent, error) {
	b := event.NewBuilder()

	exc, err := fields.Exception(r)
	if err != nil {
		return event.ErrorEvent{}, err
	}
	b.Exception(exc)

	platformType, err := r.String(fields.PathPlatformType)
	if err != nil {
		return event.ErrorEvent{}, err
	}

	v := &values{r: r}
	b.Device(event.DeviceContext{
		Family:       "Desktop",
		Arch:         fields.Arch(platformType),
		Name:         v.get("clientInfo.systemInfo.clientID"),
		Manufacturer: v.get("clientInfo.systemInfo.processor"),
		MemorySize:   v.get("clientInfo.systemInfo.fullRAM"),
		FreeMemory:   v.get("clientInfo.systemInfo.freeRAM"),
	})
	b.Runtime(event.RuntimeContext{
		Name:    v.get("clientInfo.appName"),
		Version: v.get("serverInfo.appVersion"),
	})
	b.App(event.AppContext{
		Identifier: v.get("configInfo.name"),
		Name:       v.get("configInfo.description"),
		Version:    v.get("configInfo.version"),
		Build:      v.get("configInfo.hash"),
	})
	for _, key := range event.ExtraKeys {
		b.Extra(key, v.get(extraPaths[key]))
	}
	release := v.get("configInfo.version")
	ts := v.get(fields.PathTime)
	if v.err != nil {
		return event.ErrorEvent{}, v.err
	}

	osCtx, err := fields.OS(r)
	if err != nil {
		return event.ErrorEvent{}, err
	}
	b.OS(osCtx)

	user, err := fields.User(r)
	if err != nil {
		return event.ErrorEvent{}, err
	}
	b.User(user)

	for _, c := range fields.EventLog(r) {
		b.Breadcrumb(c)
	}

	b.Release(report.Text(release)).Timestamp(fields.Time(ts))
	return b.Build(), nil
}

// Feedback returns the user comment tied to eventID when the report carries one
func Feedback(r report.Report, eventID, username string) (event.UserFeedback, bool) {
	v, ok := r.Lookup(fields.PathFeedback)
	if !ok || !report.Truthy(v) {
		return event.UserFeedback{}, false
	}
	return event.UserFeedback{EventID: eventID, Name: username, Comments: report.Text(v)}, true
}
