// Package templates holds the Template Bank: one plain-text template per
// document type and language. Templates reference form values by field id
// with a default placeholder, phrase tables as phrase.<name>, and the
// generation caption as monthYear. They are rendered with HTML escaping off.
package templates
