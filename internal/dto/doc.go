// Package dto defines the on-disk and on-the-wire document form of programs.
package dto
