// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for the user. The catalog in issue.go holds longer Markdown
// guidance for every build error kind, rendered by 'modglsl explain'.
package issue
