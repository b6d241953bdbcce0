// Package gemini implements generation.Gateway using Google's Gemini API
// through the google.golang.org/genai client.
package gemini
