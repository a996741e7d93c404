package macro

import (
	"context"
	"html"
	"regexp"
	"strings"
)

// defaultTwitterWidgetID is used for screen name timelines.
const defaultTwitterWidgetID = "346714310770302976"

const twitterScript = `<script>!function(d,s,id){var js,fjs=d.getElementsByTagName(s)[0],p=/^http:/.test(d.location)?'http':'https';if(!d.getElementById(id)){js=d.createElement(s);js.id=id;js.src=p+"://platform.twitter.com/widgets.js";fjs.parentNode.insertBefore(js,fjs);}}(document,"script","twitter-wjs");</script>`

var (
	twitterWidgetIDPattern = regexp.MustCompile(`widgetid="([^"]*)"`)
	twitterChromePattern   = regexp.MustCompile(`chrome="([^"]*)"`)
	twitterWidthPattern    = regexp.MustCompile(`width="([^"]*)"`)
	twitterHeightPattern   = regexp.MustCompile(`height="([^"]*)"`)
	twitterCountPattern    = regexp.MustCompile(`^[0-9]+$`)
)

// TwitterMacro embeds a Twitter timeline:
//
//	[[Twitter(@hubzeroplatform, 2)]]
//	[[Twitter(346714310770302976)]]
//	[[Twitter(, widgetid="346714310770302976", chrome="noheader", height="300")]]
type TwitterMacro struct{}

// NewTwitterMacro returns a TwitterMacro.
func NewTwitterMacro() *TwitterMacro {
	return &TwitterMacro{}
}

// Render implements Macro.
func (m *TwitterMacro) Render(_ context.Context, call *Call) (string, error) {
	args := strings.Split(call.Args, ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	screenName := strings.TrimLeft(args[0], "@")
	widgetID := submatch(twitterWidgetIDPattern, call.Args, "")
	chrome := submatch(twitterChromePattern, call.Args, "")
	width := submatch(twitterWidthPattern, call.Args, "100%")
	height := submatch(twitterHeightPattern, call.Args, "500")

	// Named attributes passed without a screen name land in args[0].
	if strings.Contains(screenName, "=") {
		screenName = ""
	}
	if screenName == "" && widgetID == "" || strings.Contains(screenName, "#") {
		return "(Please enter a valid Twitter Username/ID or Widget ID)", nil
	}

	atts := []string{`data-widget-id="` + defaultTwitterWidgetID + `"`}

	// Twitter does not allow numeric screen names, so this is a widget id.
	if twitterCountPattern.MatchString(screenName) {
		atts = []string{`data-widget-id="` + screenName + `"`}
		screenName = ""
	}

	if widgetID != "" {
		atts = []string{`data-widget-id="` + html.EscapeString(widgetID) + `"`}
	} else if screenName != "" {
		atts = append(atts,
			`href="https://twitter.com/`+html.EscapeString(screenName)+`"`,
			`data-screen-name="`+html.EscapeString(screenName)+`"`,
		)
	}
	atts = append(atts,
		`width="`+html.EscapeString(width)+`"`,
		`height="`+html.EscapeString(height)+`"`,
		`data-chrome="`+html.EscapeString(chrome)+`"`,
	)
	if len(args) > 1 && twitterCountPattern.MatchString(args[1]) {
		atts = append(atts, `data-tweet-limit="`+args[1]+`"`)
	}

	return `<a class="twitter-timeline" ` + strings.Join(atts, " ") + `>Loading Tweets...</a>` + "\n" + twitterScript, nil
}

func submatch(re *regexp.Regexp, s, fallback string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return fallback
}
