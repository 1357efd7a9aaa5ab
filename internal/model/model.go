// Package model holds the domain types shared by the repository, service and HTTP layers.
package model
