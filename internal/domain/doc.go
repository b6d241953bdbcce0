// Package domain contains the core entities of the prompt generation service:
// the category catalog, generation requests and results, and prompt history
// items. It is independent of any specific infrastructure or delivery
// mechanism.
package domain
