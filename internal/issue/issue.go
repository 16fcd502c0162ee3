// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	ParseFailedId
	UnknownFormatId
	PathNotFoundId
	EncodeFailedId
	ConfigLoadFailedId
	WatchFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links for this issue type
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# File not found!

The input file you specified does not exist or is not readable.

## Things you can try:
- Check the path for typos
- Verify the file exists:
~~~
$ ls -l <path>
~~~
- Pipe the document through stdin instead:
~~~
$ cat config.yaml | confval get server.port
~~~`,
	}

	parseFailedIssue = &Issue{
		id: ParseFailedId,
		mdMsg: `
# Failed to parse the document!

The input file could not be parsed in the expected format.

## Common issues:
- Syntax errors (unbalanced braces, missing quotes, bad indentation)
- The file extension does not match the actual content
- A different format than the one forced via --format

## Things you can try:
- Check the error message above for the offending line
- Force the input format explicitly:
~~~
$ confval get --format yaml -f config.txt server.port
~~~
- Validate the file with a format-native tool first`,
	}

	unknownFormatIssue = &Issue{
		id: UnknownFormatId,
		mdMsg: `
# Unknown format!

The requested format is not supported, or the file extension was not
recognized.

## Supported formats:
- **json** (.json)
- **yaml** (.yaml, .yml)
- **toml** (.toml)
- **cue** (.cue)

## Things you can try:
- Pass one of the supported names to --format / --to
- Rename the file so its extension matches its content`,
	}

	pathNotFoundIssue = &Issue{
		id: PathNotFoundId,
		mdMsg: `
# No value at that path!

The document parsed fine, but nothing lives at the path you asked for.

## Path syntax:
- Dictionary keys are separated by dots: server.host
- Array elements use bracketed indices: servers[0].port
- Quote keys that contain dots or brackets: ["my.key"].value

## Things you can try:
- Print the whole document to see its shape:
~~~
$ confval get -f config.yaml .
~~~
- Check for typos and off-by-one indices (indices start at 0)`,
	}

	encodeFailedIssue = &Issue{
		id: EncodeFailedId,
		mdMsg: `
# Value not representable in the target format!

The value converted fine but cannot be written in the requested output
format.

## Known restrictions:
- TOML has no null literal; strip null entries before converting
- TOML requires the top level to be a table (a dictionary)
- JSON cannot encode NaN

## Things you can try:
- Pick a different output format:
~~~
$ confval convert -f config.json --to yaml
~~~
- Remove or replace the offending value (the error names its path)`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your confval configuration file could not be loaded.

## Config file locations:
- Linux: ~/.config/confval/config.cue
- macOS: ~/Library/Application Support/confval/config.cue
- Windows: %APPDATA%\confval\config.cue

## Things you can try:
- Check the file for CUE syntax errors
- Recreate the default configuration:
~~~
$ confval config init
~~~
- Show the resolved configuration path:
~~~
$ confval config path
~~~`,
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# Failed to watch the file!

The file watcher could not be started or stopped unexpectedly.

## Common causes:
- The watched file or its directory was deleted
- The inotify watch limit was reached (Linux):
~~~
$ sysctl fs.inotify.max_user_watches
~~~
- Too many open file descriptors

## Things you can try:
- Re-run without --watch to confirm the document itself is fine
- Raise the watch limit or close other watchers and retry`,
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():     fileNotFoundIssue,
		parseFailedIssue.Id():      parseFailedIssue,
		unknownFormatIssue.Id():    unknownFormatIssue,
		pathNotFoundIssue.Id():     pathNotFoundIssue,
		encodeFailedIssue.Id():     encodeFailedIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		watchFailedIssue.Id():      watchFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
