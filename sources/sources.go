package sources

import (
	// allow importing all default sources with a single import
	_ "github.com/mattermost/cdxbom/sources/cocoapods"
	_ "github.com/mattermost/cdxbom/sources/composer"
	_ "github.com/mattermost/cdxbom/sources/gomod"
	_ "github.com/mattermost/cdxbom/sources/gradle"
	_ "github.com/mattermost/cdxbom/sources/npm"
)
