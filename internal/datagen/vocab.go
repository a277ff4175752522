package datagen

var domains = []string{
	"google.com", "facebook.com", "youtube.com", "amazon.com", "github.com",
	"netflix.com", "twitter.com", "linkedin.com", "reddit.com", "instagram.com",
	"microsoft.com", "apple.com", "stackoverflow.com", "wikipedia.org", "medium.com",
	"twitch.tv", "spotify.com", "dropbox.com", "slack.com", "zoom.us",
	"adobe.com", "salesforce.com", "shopify.com", "stripe.com", "paypal.com",
	"ebay.com", "walmart.com", "target.com", "bestbuy.com", "homedepot.com",
	"nytimes.com", "bbc.co.uk", "cnn.com", "reuters.com", "theguardian.com",
	"espn.com", "nba.com", "nfl.com", "mlb.com", "fifa.com",
	"booking.com", "airbnb.com", "expedia.com", "tripadvisor.com", "kayak.com",
	"uber.com", "lyft.com", "doordash.com", "grubhub.com", "instacart.com",
	"docker.com", "kubernetes.io", "terraform.io", "ansible.com", "jenkins.io",
	"mongodb.com", "postgresql.org", "mysql.com", "redis.io", "elasticsearch.co",
	"cloudflare.com", "fastly.com", "akamai.com", "digitalocean.com", "heroku.com",
	"vercel.com", "netlify.com", "gatsby.com", "nextjs.org", "svelte.dev",
}

var tlds = []string{".com", ".org", ".net", ".ca", ".co.uk", ".io", ".dev", ".us", ".tv", ".ru"}

var brandKeywords = []string{
	"google", "amazon", "apple", "microsoft", "shop", "news", "cloud",
	"dev", "tech", "game", "music", "video", "health", "finance", "travel",
}

var hostPrefixes = []string{"www.", "api.", "shop.", "blog.", "mail.", "m.", "dev.", "cdn.", "app.", "admin."}

var pathDirs = []string{
	"/api", "/admin", "/blog", "/category", "/products", "/users", "/search", "/docs",
	"/news", "/sport", "/music", "/video", "/health", "/finance", "/travel",
	"/login", "/signup", "/settings", "/profile", "/dashboard",
	"/images", "/assets", "/downloads", "/help",
}

var pathKeywords = []string{
	"sport", "news", "tech", "finance", "health", "travel", "music", "video",
	"game", "food", "fashion", "auto", "science", "education", "weather",
	"entertainment", "politics", "business", "culture", "lifestyle",
}

var fileExtensions = []string{
	".html", ".php", ".js", ".css", ".json", ".xml", ".png", ".jpg",
	".pdf", ".svg", ".gif", ".webp", ".woff", ".ttf", ".ico", ".txt",
	".csv", ".zip", ".tar", ".gz", ".mp4", ".mp3", ".webm", ".wasm",
}

var fileNames = []string{
	"index", "main", "app", "style", "script", "data", "config",
	"logo", "favicon", "manifest", "robots", "sitemap", "feed",
}

var queryParams = []string{
	"lang=en", "sort=date", "page=1", "utm_source=google", "ref=home",
	"category=electronics", "type=json", "format=xml", "debug=true", "v=2",
	"q=search", "id=12345", "token=abc", "limit=100", "offset=0",
	"filter=active", "mode=dark", "theme=default", "locale=en-US", "currency=USD",
	"size=large", "color=blue", "brand=nike", "year=2025",
}
