package mcpserver

// FormatContract describes how specpress reads an OpenSpec tree, so that
// LLM consumers write documents that classify and render as intended.
const FormatContract = `# OpenSpec Document Format

specpress imports every Markdown file under the configured openspec
directory. Each file becomes one document.

## Layout

` + "```" + `text
openspec/
  project.md
  specs/<project>/spec.md          # current truth per capability
  changes/<project>/proposal.md    # proposed change
  changes/<project>/design.md
  changes/<project>/tasks.md
  changes/archive/...              # finished changes
` + "```" + `

The directory directly under ` + "`specs/`" + ` or ` + "`changes/`" + ` is the document's
project.

## Frontmatter

Optional. The ` + "`---`" + ` fence must be the very first line. Supported YAML is a
subset: ` + "`key: value`" + ` pairs, ` + "`key:`" + ` followed by ` + "`- item`" + ` lines, and inline
lists ` + "`[a, b]`" + `. Scalars are strings, integers, floats, ` + "`true`" + `, ` + "`false`" + ` and ` + "`null`" + `.
Nested mappings are not supported.

| Key     | Effect                                                       |
|---------|--------------------------------------------------------------|
| title   | Document title (wins over headings and the file name)        |
| phase   | Document type, lowercased and reduced to ` + "`[a-z0-9_-]`" + `         |
| spec    | Any non-empty value makes the type ` + "`spec`" + ` when phase is absent |

## Type

Decided in order: ` + "`phase`" + `, ` + "`spec`" + `, then the file name containing
` + "`requirements`" + `, ` + "`design`" + `, ` + "`tasks`" + `, ` + "`proposal`" + `, ` + "`spec`" + ` or ` + "`research`" + `, then the path
containing ` + "`/specs/`" + `, ` + "`/changes/`" + ` (type ` + "`change`" + `), ` + "`/proposals/`" + ` or
` + "`/archive/`" + ` (type ` + "`archived`" + `). Anything else is ` + "`document`" + `.

## Title

Frontmatter ` + "`title`" + `, else the first ` + "`# H1`" + `, else the first ` + "`## H2`" + `, else
the file name with dashes and underscores as spaces, words capitalised.

## Body

Rendered Markdown: fenced code with a language, inline code, headings,
pipe tables, ` + "`-`" + `/` + "`*`" + `/` + "`1.`" + ` lists, ` + "`- [ ]`" + ` and ` + "`- [x]`" + ` task boxes, bold,
italic, strikethrough, links, images, block quotes and ` + "`---`" + ` rules. Raw HTML
is escaped. Files with no body after the frontmatter are skipped.

## Example

` + "```" + `markdown
---
title: Token signing
phase: design
---
# Token signing

## Decision

- [x] Sign with Ed25519
- [ ] Rotate keys monthly
` + "```" + `
`
