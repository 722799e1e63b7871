// Command flashgen generates flashcards from a text file by calling the
// configured LLM provider directly, without the HTTP server or a database.
//
// Configuration is read the same way as the server: defaults, then the file
// named by --config or FLASHGEN_CONFIG, then FLASHGEN_* environment variables.
// Only the llm and generation sections are required.
//
//	flashgen generate notes.txt
//	cat notes.txt | flashgen generate - --format json
//	flashgen config show
package main
