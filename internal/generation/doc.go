// Package generation holds the prompt generation core: composing an
// instruction for a category, invoking an LLM through the Gateway port, and
// extracting a structured result from the model's free-form reply.
//
// Vendor adapters that implement Gateway live under internal/platform and are
// the only code that performs network I/O on behalf of this package.
package generation
