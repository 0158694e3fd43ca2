package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openpaw/openpaw/internal/device"
)

type OpenAppInput struct {
	AppName     string `json:"app_name,omitempty" jsonschema_description:"Human-readable app name, e.g. 'Spotify', 'Maps', 'Camera'."`
	PackageName string `json:"package_name,omitempty" jsonschema_description:"Exact Android package name (optional), e.g. 'com.spotify.music'."`
}

// Commonly used app name to package mappings.
var wellKnownApps = map[string]string{
	"whatsapp":    "com.whatsapp",
	"spotify":     "com.spotify.music",
	"maps":        "com.google.android.apps.maps",
	"google maps": "com.google.android.apps.maps",
	"youtube":     "com.google.android.youtube",
	"camera":      "com.android.camera2",
	"photos":      "com.google.android.apps.photos",
	"gmail":       "com.google.android.gm",
	"chrome":      "com.android.chrome",
	"settings":    "com.android.settings",
	"instagram":   "com.instagram.android",
	"telegram":    "org.telegram.messenger",
	"netflix":     "com.netflix.mediaclient",
	"twitter":     "com.twitter.android",
	"x":           "com.twitter.android",
}

// OpenApp launches an app by friendly name or package id.
func OpenApp(launcher device.AppLauncher) Definition {
	return Definition{
		Name:        "open_app",
		Description: "Launch an app on the device by name or package ID. Example: 'open Spotify' or 'open com.spotify.music'.",
		InputSchema: GenerateSchema[OpenAppInput](),
		Execute: func(ctx context.Context, input json.RawMessage) (Result, error) {
			var in OpenAppInput
			if err := json.Unmarshal(input, &in); err != nil {
				return Result{}, err
			}

			pkg := in.PackageName
			name := strings.ToLower(strings.TrimSpace(in.AppName))
			if pkg == "" {
				if mapped, known := wellKnownApps[name]; known {
					pkg = mapped
				} else {
					pkg = name
				}
			}
			if pkg == "" {
				return fail(fmt.Errorf("provide 'app_name' or 'package_name'"))
			}

			if err := launcher.Open(ctx, pkg); err != nil {
				return fail(fmt.Errorf("could not launch %s: %w", pkg, err))
			}
			shown := in.AppName
			if shown == "" {
				shown = pkg
			}
			return ok("Opened app: " + shown)
		},
	}
}
