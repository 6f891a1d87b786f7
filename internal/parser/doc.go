// Package parser provides the shared parsing primitives for agent
// document formats: frontmatter splitting and rendering, plus the typed
// parse error surfaced for malformed input. Each agent (Claude, Gemini,
// Codex, OpenCode, Cursor, Copilot, Chimera) has its own subpackage that
// knows that agent's on-disk shape and its projection to and from the
// semantic IR.
package parser
