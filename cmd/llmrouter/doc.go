// Command llmrouter runs the LLM router gateway: it loads a policy catalog
// from a YAML file, then serves chat-completion proxy, config, health, and
// metrics endpoints on a single listener.
package main
