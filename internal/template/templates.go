package template

// basicTemplate is a minimal prompt body that forwards the user's input.
const basicTemplate = `# {{.Name}}

{{.Description}}

## Task

$ARGUMENTS
`

// workflowTemplate structures the prompt as numbered steps.
const workflowTemplate = `# {{.Name}}

{{.Description}}

## Steps

1. Understand the request: $ARGUMENTS
2. Gather the relevant context from the repository.
3. Carry out the work, one change at a time.
4. Summarize what was done and anything left open.

## Notes

Stop and ask before any destructive action.
`

// reviewTemplate wraps repository state into a review prompt.
const reviewTemplate = `# {{.Name}}

{{.Description}}

## Current changes

` + "!`git status --short`" + `

` + "!`git diff`" + `

## Task

Review the changes above. $ARGUMENTS

Point out correctness issues first, then style.
`
