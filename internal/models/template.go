package models

// Template describes a marketing poster template. Templates are owned by the
// content-management side; workers treat them as immutable input.
type Template struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	ImageURL         string   `json:"imageUrl"`
	Occasions        []string `json:"occasions,omitempty"`
	SupportsLogo     bool     `json:"supportsLogo"`
	SupportsProducts bool     `json:"supportsProducts"`
	SupportsServices bool     `json:"supportsServices"`
	SupportsOffers   bool     `json:"supportsOffers"`
}

// ShareSelection is the ephemeral per-customize-session state: what the
// vendor typed and picked before sharing. It is never persisted beyond the
// usage record sent to analytics.
type ShareSelection struct {
	CustomText         string   `json:"customText,omitempty"`
	SelectedProductIDs []string `json:"selectedProductIds,omitempty"`
	SelectedServiceIDs []string `json:"selectedServiceIds,omitempty"`
	SelectedOfferIDs   []string `json:"selectedOfferIds,omitempty"`
	Layout             Layout   `json:"layout"`
}
