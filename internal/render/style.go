package render

import _ "embed"

// StyleVersion changes whenever the stylesheet does.
const StyleVersion = "1.0.0"

//go:embed openspec.css
var stylesheet string

// CSS returns the stylesheet for the classes emitted by this package.
func CSS() string {
	return stylesheet
}

// StyleTag returns the stylesheet wrapped in a <style> element.
func StyleTag() string {
	return "<style>\n" + stylesheet + "</style>"
}
