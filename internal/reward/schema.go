package reward

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/abcadventure/internal/video"
)

// ErrInvalidDocument wraps schema violations in an imported settings file.
var ErrInvalidDocument = errors.New("settings document is invalid")

const settingsSchemaURL = "schema://abcadventure/settings.json"

// settingsSchema describes an importable settings document. Every key is
// optional; absent keys keep their current value.
const settingsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "lettersPerReward":  {"type": "integer", "minimum": 1, "maximum": 26},
    "rewardSeconds":     {"type": "integer", "minimum": 10, "maximum": 600},
    "youtubeVideoId":    {"type": "string", "minLength": 1},
    "rewardOrientation": {"enum": ["portrait", "landscape"]},
    "parentPin":         {"type": "string", "pattern": "^[0-9]{4,8}$"},
    "rewardEnabled":     {"type": "boolean"}
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func settingsValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(settingsSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse settings schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(settingsSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(settingsSchemaURL)
	})
	return compiledSchema, compileErr
}

// DecodeSettingsDocument validates raw against the settings schema and
// overlays it on base. The video field accepts the same links the parent
// form does.
func DecodeSettingsDocument(raw []byte, base Settings) (Settings, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return base, fmt.Errorf("%w: invalid JSON: %w", ErrInvalidDocument, err)
	}

	schema, err := settingsValidator()
	if err != nil {
		return base, err
	}
	if err := schema.Validate(parsed); err != nil {
		return base, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	out := base
	if err := json.Unmarshal(raw, &out); err != nil {
		return base, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if strings.TrimSpace(out.YouTubeVideoID) != strings.TrimSpace(base.YouTubeVideoID) {
		id := video.ParseID(out.YouTubeVideoID)
		if id == "" {
			return base, fmt.Errorf("%w: %q", ErrInvalidVideo, out.YouTubeVideoID)
		}
		out.YouTubeVideoID = id
	}
	return out, nil
}
