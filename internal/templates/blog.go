package templates

import (
	"git.home.luguber.info/inful/htmlgen/internal/fragment"
)

// BlogName is the name of the built-in blog template.
const BlogName = "blog"

// PostRoute is the page pattern of a single post in the blog template.
const PostRoute = "/posts/:slug/"

func init() {
	Register(BlogName, Blog)
}

// Blog renders a home page showing the newest post, one page per post, a
// post listing and a not-found page.
func Blog(s *Scope) fragment.Token {
	posts := s.Content

	title := s.Route(func(on fragment.On) {
		if len(posts) > 0 {
			on("/", posts[0].Title)
		}
		for _, post := range posts {
			on(s.MustLink(PostRoute, post), post.Title)
		}
		on("/posts/", "Posts")
		on("/404.html", "Page Not Found")
	})

	body := s.Route(func(on fragment.On) {
		if len(posts) > 0 {
			on("/", s.Markup(`
            <h2>%v</h2>
            %v
          `, posts[0].Title, s.Safe(posts[0].HTML)))
		}

		for _, post := range posts {
			on(s.MustLink(PostRoute, post), s.Markup(`
            <h2>%v</h2>
            %v
          `, post.Title, s.Safe(post.HTML)))
		}

		list := make([]fragment.Token, 0, len(posts))
		for _, post := range posts {
			list = append(list, s.Markup(`<li><a href="%v">%v</a></li>`, s.MustLink(PostRoute, post), post.Title))
		}
		on("/posts/", s.Markup(`
            <ol>
              %v
            </ol>
          `, list))

		on("/404.html", s.Markup(`<h2>Page Not Found</h2>`))
	})

	return s.Markup(`
  <!doctype html>
  <html>
    <head>
      <title>%v</title>
    </head>
    <body>
      <h1>%v</h1>
      <main>
        %v
      </main>
    </body>
  </html>
  `, title, s.Page(), body)
}
