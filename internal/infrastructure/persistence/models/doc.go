// Package models contains the gorm persistence models for the storefront.
//
// Domain entities stay free of ORM tags; every model converts to and from
// its entity with ToDomain and FromDomain.
package models
