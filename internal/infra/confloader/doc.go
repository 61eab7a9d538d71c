// Package confloader loads chatmesh configuration with koanf.
//
// Sources are applied in order, later ones winning:
//
//  1. Defaults already present in the target struct
//  2. A YAML file
//  3. Environment variables with the CHATMESH_ prefix
//  4. Explicit overrides (command-line flags)
//
// Environment names are matched against the target's koanf keys, so
// CHATMESH_PROVIDER_OPENAI_API_KEY resolves to provider.openai.api_key even
// though the key itself contains an underscore.
//
// Watcher reports changes to the config file so the server can re-read it.
package confloader
