package urlparse

import (
	"testing"

	"github.com/ruleclassify/engine/pkg/rule"
)

func TestParsesFullURL(t *testing.T) {
	u, err := Parse("https://example.com/path?key=value")
	if err != nil {
		t.Fatal(err)
	}
	if u.HostValue != "example.com" || u.PathValue != "/path" || u.QueryValue != "key=value" {
		t.Fatalf("got %+v", u)
	}
}

func TestAutoPrependsScheme(t *testing.T) {
	u, err := Parse("example.com/path")
	if err != nil {
		t.Fatal(err)
	}
	if u.HostValue != "example.com" || u.PathValue != "/path" {
		t.Fatalf("got %+v", u)
	}
}

func TestLowercasesHost(t *testing.T) {
	u, err := Parse("https://EXAMPLE.COM/Path")
	if err != nil {
		t.Fatal(err)
	}
	if u.HostValue != "example.com" || u.PathValue != "/Path" {
		t.Fatalf("got %+v", u)
	}
}

func TestHandlesEmptyPath(t *testing.T) {
	u, err := Parse("https://example.com")
	if err != nil {
		t.Fatal(err)
	}
	if u.HostValue != "example.com" || u.PathValue != "" || u.FileValue != "" {
		t.Fatalf("got %+v", u)
	}
}

func TestHandlesEmptyQuery(t *testing.T) {
	u, err := Parse("https://example.com/path")
	if err != nil {
		t.Fatal(err)
	}
	if u.QueryValue != "" {
		t.Fatalf("query = %q, want empty", u.QueryValue)
	}
}

func TestHandlesComplexQuery(t *testing.T) {
	u, err := Parse("https://example.com/search?q=hello&lang=en")
	if err != nil {
		t.Fatal(err)
	}
	if u.QueryValue != "q=hello&lang=en" {
		t.Fatalf("query = %q", u.QueryValue)
	}
}

func TestErrorsOnBlank(t *testing.T) {
	if _, err := Parse("  "); err == nil {
		t.Fatal("expected error")
	}
}

func TestErrorsOnEmpty(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatal("expected error")
	}
}

func TestErrorsOnSchemeWithNoHost(t *testing.T) {
	if _, err := Parse("://path"); err == nil {
		t.Fatal("expected error")
	}
}

func TestPartAccessorWorks(t *testing.T) {
	u, err := Parse("https://example.com/path?q=1")
	if err != nil {
		t.Fatal(err)
	}
	if u.Part(rule.Host) != "example.com" || u.Part(rule.Path) != "/path" ||
		u.Part(rule.File) != "path" || u.Part(rule.Query) != "q=1" {
		t.Fatalf("got %+v", u)
	}
}

func TestHandlesSubdomain(t *testing.T) {
	u, err := Parse("https://www.shop.example.ca/products")
	if err != nil {
		t.Fatal(err)
	}
	if u.HostValue != "www.shop.example.ca" || u.PathValue != "/products" {
		t.Fatalf("got %+v", u)
	}
}

func TestExtractsFileFromPath(t *testing.T) {
	u, err := Parse("https://example.com/category/sport/items")
	if err != nil {
		t.Fatal(err)
	}
	if u.FileValue != "items" {
		t.Fatalf("file = %q", u.FileValue)
	}
}

func TestFileIsEmptyForTrailingSlash(t *testing.T) {
	u, err := Parse("https://example.com/path/")
	if err != nil {
		t.Fatal(err)
	}
	if u.FileValue != "" {
		t.Fatalf("file = %q, want empty", u.FileValue)
	}
}

func TestFileIsEmptyForRootPath(t *testing.T) {
	u, err := Parse("https://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if u.FileValue != "" {
		t.Fatalf("file = %q, want empty", u.FileValue)
	}
}

func TestFileFromSingleSegmentPath(t *testing.T) {
	u, err := Parse("https://example.com/index.html")
	if err != nil {
		t.Fatal(err)
	}
	if u.FileValue != "index.html" {
		t.Fatalf("file = %q", u.FileValue)
	}
}

func TestStripsPortFromHost(t *testing.T) {
	u, err := Parse("https://example.com:8080/path?q=1")
	if err != nil {
		t.Fatal(err)
	}
	if u.HostValue != "example.com" || u.PathValue != "/path" || u.QueryValue != "q=1" {
		t.Fatalf("got %+v", u)
	}
}

func TestStripsPortWithNoPath(t *testing.T) {
	u, err := Parse("https://example.com:443")
	if err != nil {
		t.Fatal(err)
	}
	if u.HostValue != "example.com" || u.PathValue != "" {
		t.Fatalf("got %+v", u)
	}
}

func TestStripsPortWithNoScheme(t *testing.T) {
	u, err := Parse("example.com:3000/api/data")
	if err != nil {
		t.Fatal(err)
	}
	if u.HostValue != "example.com" || u.PathValue != "/api/data" {
		t.Fatalf("got %+v", u)
	}
}
