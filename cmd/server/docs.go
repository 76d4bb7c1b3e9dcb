// Package main Gift Registry API
//
//	@title						Gift Registry API
//	@version					1.0
//	@description				Wedding gift registry: catalog, guest contributions through Stripe Checkout, guestbook, gallery and the couple's admin dashboard.
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					Checkout
//	@tag.description			Guest contributions through Stripe Checkout
//
//	@tag.name					Webhooks
//	@tag.description			Stripe event delivery
//
//	@tag.name					Gifts
//	@tag.description			Gift catalog
//
//	@tag.name					Guestbook
//	@tag.description			Guest messages
//
//	@tag.name					Gallery
//	@tag.description			Carousel, photos, comments and likes
//
//	@tag.name					Wedding
//	@tag.description			Ceremony and venue details
//
//	@tag.name					Admin
//	@tag.description			Couple-only management, ledger and dashboard
package main
