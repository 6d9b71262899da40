package gate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skillforge-lms/skillforge/internal/gate"
)

func TestClassify(t *testing.T) {
	classifier := gate.NewClassifier(gate.DefaultBypassPrefixes)

	cases := []struct {
		path string
		want gate.RouteCategory
	}{
		{"/static/css/app.css", gate.RouteBypass},
		{"/healthz", gate.RouteBypass},
		{"/metrics", gate.RouteBypass},
		{"/api/public/modules", gate.RouteBypass},
		{"/debug/pprof/heap", gate.RouteBypass},
		{"/login", gate.RouteAuthPage},
		{"/login/reset", gate.RouteAuthPage},
		{"/register", gate.RouteAuthPage},
		{"/", gate.RouteRootPage},
		{"/dashboard", gate.RouteProtectedDashboard},
		{"/dashboard/admin", gate.RouteProtectedDashboard},
		{"/dashboard/learn/courses/42", gate.RouteProtectedDashboard},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifier.Classify(tc.path), "path %s", tc.path)
	}
}

func TestClassifyUnlistedPathIsBypass(t *testing.T) {
	classifier := gate.NewClassifier(gate.DefaultBypassPrefixes)

	// Unmatched paths are public by contract, not by accident.
	for _, path := range []string{"/about", "/pricing", "/terms", "/favicon.ico"} {
		assert.Equal(t, gate.RouteBypass, classifier.Classify(path), "path %s", path)
	}
}

func TestClassifyIsCaseSensitive(t *testing.T) {
	classifier := gate.NewClassifier(gate.DefaultBypassPrefixes)

	assert.Equal(t, gate.RouteBypass, classifier.Classify("/Login"))
	assert.Equal(t, gate.RouteBypass, classifier.Classify("/Dashboard/admin"))
}

func TestClassifyBypassWinsOverLaterBuckets(t *testing.T) {
	classifier := gate.NewClassifier([]string{"/dashboard/export/"})

	assert.Equal(t, gate.RouteBypass, classifier.Classify("/dashboard/export/report.csv"))
	assert.Equal(t, gate.RouteProtectedDashboard, classifier.Classify("/dashboard/admin"))
}
