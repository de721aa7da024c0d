package scanner

import "github.com/PuerkitoBio/goquery"

type stubLayout struct{}

func (stubLayout) Name() string { return "tns" }

func (stubLayout) ParseListing(*goquery.Document) ([]Note, error) { return nil, nil }

func (stubLayout) ParseObjects(*goquery.Document) ([]Table, error) { return nil, nil }
