// Package textutil turns free-form topics into filesystem-safe names.
package textutil
