package catalog

// builtinProjectRules routes content to the product it is really about.
// Labels are project display names as they appear in dev_projects.
var builtinProjectRules = []Rule{
	// NextBid family
	{Patterns: []string{"nextbid engine", "nextbid-engine", "engine api", "auction engine"}, Label: "NextBid Engine"},
	{Patterns: []string{"nextbid core", "nextbid-core", "core module", "core api"}, Label: "NextBid Core"},
	{Patterns: []string{"nextbid internal", "nextbid-internal", "internal tools"}, Label: "NextBid Internal"},
	{Patterns: []string{"nexttask", "next-task", "task management"}, Label: "NextTask"},
	{Patterns: []string{"nextlive", "next-live", "live streaming", "live auction"}, Label: "NextLive"},
	{Patterns: []string{"nextseller", "next-seller", "seller dashboard"}, Label: "NextSeller"},
	{Patterns: []string{"nextbid prime", "nextbid-prime", "prime module"}, Label: "NextBid Prime"},
	{Patterns: []string{"nextbid pro", "nextbid-pro", "pro features"}, Label: "NextBid Pro"},
	// Studios platform
	{Patterns: []string{"kodiack studio", "kodiack-studio", "studios platform", "ai team"}, Label: "Studios Platform"},
	{Patterns: []string{"kodiack dashboard", "kodiack-dashboard", "dashboard 5500"}, Label: "Kodiack Dashboard"},
	{Patterns: []string{"internal claude", "claude mcp", "susan ", "jen ", "clair ", "ryan ", "chad "}, Label: "Internal Claude"},
}

// builtinPhaseRules map content keywords to roadmap phase names. Only
// phases that actually exist under an item's project are candidates, so
// two projects can reuse a phase name without cross-talk.
var builtinPhaseRules = []Rule{
	{Label: "Core Platform", Patterns: []string{
		"auth", "login", "permission", "role", "access control", "user management",
		"project management", "dashboard", "task tracking", "deadline",
		"file storage", "upload", "file management", "asset storage",
		"collaboration", "team", "chat", "notification", "messaging",
		"client portal", "client access", "customer portal",
		"billing", "invoice", "payment", "subscription",
		"crm", "lead", "contract", "client relationship",
	}},
	{Label: "Code Development", Patterns: []string{
		"git", "version control", "branch", "commit", "merge", "repository",
		"ci/cd", "cicd", "pipeline", "deploy", "build process", "automation",
		"code review", "pull request", "pr review", "merge request",
		"documentation", "docs", "readme", "api docs", "jsdoc",
		"testing", "test", "unit test", "integration test", "e2e", "jest", "mocha",
		"dev environment", "docker", "container", "devops",
	}},
	{Label: "Creative/Graphics", Patterns: []string{
		"asset", "image", "graphic", "design", "artwork", "illustration",
		"style guide", "design system", "color", "typography", "ui kit",
		"brand", "logo", "icon", "brand kit", "visual identity",
		"image processing", "video", "resize", "compress", "optimize",
		"3d", "model", "blender", "maya", "render",
		"texture", "sprite", "animation", "tileset",
	}},
	{Label: "Web Development", Patterns: []string{
		"website", "template", "theme", "landing page", "web page",
		"cms", "content management", "wordpress", "strapi",
		"ecommerce", "e-commerce", "shopping", "cart", "checkout", "store",
		"seo", "meta tag", "sitemap", "search engine",
		"analytics", "tracking", "conversion", "google analytics",
		"hosting", "server", "ssl", "domain", "dns", "nginx",
	}},
	{Label: "App Development", Patterns: []string{
		"mobile", "app", "ios", "android", "smartphone",
		"react native", "flutter", "native app", "expo",
		"app store", "play store", "submission", "app release",
		"push notification", "firebase messaging", "apns",
		"in-app purchase", "iap", "subscription", "monetization",
		"crash report", "app analytics", "crashlytics",
	}},
	{Label: "Game Development", Patterns: []string{
		"game", "gaming", "gameplay", "player",
		"game engine", "unity", "unreal", "godot", "phaser",
		"level editor", "level", "map", "world builder",
		"character", "rigging", "skeletal", "npc",
		"multiplayer", "matchmaking", "netcode", "realtime",
		"leaderboard", "achievement", "score", "ranking",
	}},
}
