// Package override turns --config-override flag values into a settings patch.
//
// Overrides arrive as a flat token stream of key, value pairs. Keys name
// root settings (encrypt, linewrap, ...) or table entries (color.title,
// journals.work). Values are coerced by the type the settings schema gives
// the key, and the resulting patch is validated against that schema before
// it is merged over the settings file.
package override
