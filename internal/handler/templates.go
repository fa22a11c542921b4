package handler

import "html/template"

// The views are deliberately plain: this binary is the coordination client,
// not the product's styled frontend.

const baseTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}} - parley</title></head>
<body>
<header>
  <nav>
    <form method="post" action="/tab"><button name="tab" value="forum">forum</button></form>
    <form method="post" action="/tab"><button name="tab" value="settings">settings</button></form>
  </nav>
  {{if .SignedIn}}
    <span>{{.UserName}}</span>
    <form method="post" action="/signout"><button>sign out</button></form>
  {{else}}
    <form method="post" action="/signin">
      <input name="email" placeholder="email">
      <input name="password" type="password" placeholder="password">
      <button>sign in</button>
    </form>
  {{end}}
  <form method="get" action="/search">
    <input name="q" value="{{.SearchText}}" placeholder="search, @author, @bookmarked">
    <button>search</button>
  </form>
  {{range .Notifications}}
    <div class="notice notice-{{.Level}}">
      {{.Message}}
      <form method="post" action="/notifications/{{.Id}}/dismiss"><button>x</button></form>
    </div>
  {{end}}
</header>
{{template "content" .}}
</body>
</html>`

const listTemplate = `{{define "content"}}
<main>
  <form method="post" action="/sort/threads">
    <button name="sort" value="popular">popular</button>
    <button name="sort" value="recent">recent</button>
    <button name="sort" value="new">new</button>
  </form>
  {{if eq .Mode "posts"}}
    {{range .Posts}}
      <article class="{{if .Deleted}}deleted{{end}}">
        <img src="{{.AvatarURL}}" alt=""> <b>{{.Author.Name}}</b>
        <div>{{.Body}}</div>
        <span>+{{.Likes}} -{{.Dislikes}}</span>
        <form method="post" action="/threads/{{.ThreadId}}/open"><button>open thread</button></form>
      </article>
    {{end}}
  {{else}}
    {{range .Threads}}
      <article>
        <img src="{{.AvatarURL}}" alt="">
        <form method="post" action="/threads/{{.Id}}/open">
          <button name="title" value="{{.Title}}">{{.Title}}</button>
        </form>
        <span>by {{.Author.Name}} · {{.ReplyCount}} replies · +{{.Likes}} -{{.Dislikes}}</span>
        {{if .Bookmarked}}<span>bookmarked</span>{{end}}
        {{if .HasPoll}}<span>poll</span>{{end}}
      </article>
    {{end}}
    <details>
      <summary>new thread</summary>
      <form method="post" action="/threads">
        <input name="title" placeholder="title">
        <textarea name="content"></textarea>
        <input name="poll_option" placeholder="poll option 1">
        <input name="poll_option" placeholder="poll option 2">
        <label><input type="checkbox" name="poll_multiple">multiple choice</label>
        <button>create</button>
      </form>
    </details>
  {{end}}
  {{template "pager" .}}
</main>
{{end}}`

const threadTemplate = `{{define "content"}}
<main>
  <form method="post" action="/navigate/list"><button>back to list</button></form>
  <h1>{{.Thread.Title}}</h1>
  <form method="post" action="/threads/{{.Thread.Id}}/bookmark">
    <button>{{if .Thread.Bookmarked}}remove bookmark{{else}}bookmark{{end}}</button>
  </form>
  {{with .Root}}{{template "post" .}}{{end}}
  {{with .Poll}}
    <form method="post" action="/poll/vote">
      {{range .Options}}
        <label><input type="{{if $.Poll.Multiple}}checkbox{{else}}radio{{end}}" name="option" value="{{.Id}}">{{.Text}} ({{.Votes}})</label>
      {{end}}
      <button>vote</button>
    </form>
  {{end}}
  <form method="post" action="/sort/replies">
    <button name="sort" value="popular">popular</button>
    <button name="sort" value="new">new</button>
  </form>
  {{range .Replies}}{{template "post" .}}{{end}}
  <form method="post" action="/reply">
    <textarea name="content"></textarea>
    <button>reply</button>
  </form>
  {{template "pager" .}}
</main>
{{end}}`

const repliesTemplate = `{{define "content"}}
<main>
  <form method="post" action="/navigate/back"><button>back to thread</button></form>
  {{with .Parent}}{{template "post" .}}{{end}}
  {{range .Replies}}{{template "post" .}}{{end}}
  <form method="post" action="/reply">
    <textarea name="content"></textarea>
    <button>reply</button>
  </form>
  {{template "pager" .}}
</main>
{{end}}`

const errorTemplate = `{{define "content"}}
<main>
  <p>{{.Message}}</p>
  <form method="get" action="/"><button>retry</button></form>
</main>
{{end}}`

// post and pager are shared partials.
const partials = `
{{define "post"}}
<article id="post-{{.Id}}" class="{{if .Highlight}}highlight{{end}} {{if .Deleted}}deleted{{end}}">
  <img src="{{.AvatarURL}}" alt=""> <b>{{.Author.Name}}</b>
  {{if .Edited}}<em>edited</em>{{end}}
  {{if .Deleted}}
    <div>[deleted]</div>
  {{else}}
    <div>{{.Body}}</div>
  {{end}}
  {{if .AdditionalComment}}<div class="addendum">{{.AdditionalComment}}</div>{{end}}
  <form method="post" action="/posts/{{.Id}}/vote">
    <button name="direction" value="1">+{{.Likes}}</button>
    <button name="direction" value="-1">-{{.Dislikes}}</button>
  </form>
  {{if .ReplyCount}}
    <form method="post" action="/posts/{{.Id}}/open">
      <button>{{.ReplyCount}} replies{{if .FirstReplyAuthor}} · {{.FirstReplyAuthor}}: {{.FirstReplyPreview}}{{end}}</button>
    </form>
  {{end}}
  <form method="post" action="/posts/{{.Id}}/flag"><button>{{if .Flagged}}unflag{{else}}flag{{end}}</button></form>
  {{if .Deleted}}
    <form method="post" action="/posts/{{.Id}}/restore"><button>restore</button></form>
  {{else}}
    <form method="post" action="/posts/{{.Id}}/delete"><button>delete</button></form>
    <form method="post" action="/posts/{{.Id}}/edit">
      <textarea name="content"></textarea>
      <button>save edit</button>
    </form>
  {{end}}
</article>
{{end}}
{{define "pager"}}
<footer>
  <form method="post" action="/pages/{{.List}}/page">
    <input name="page" value="{{.Page}}" size="3">
    <button>go</button>
  </form>
  <form method="post" action="/pages/{{.List}}/size">
    <input name="size" value="{{.PageSize}}" size="3">
    <button>set size</button>
  </form>
  <span>{{.Page}} / {{.TotalPages}}</span>
</footer>
{{end}}`

func mustParseTemplates() map[string]*template.Template {
	views := map[string]string{
		"list":    listTemplate,
		"thread":  threadTemplate,
		"replies": repliesTemplate,
		"error":   errorTemplate,
	}
	out := make(map[string]*template.Template, len(views))
	for name, src := range views {
		t := template.Must(template.New("base").Parse(baseTemplate))
		template.Must(t.Parse(partials))
		out[name] = template.Must(t.Parse(src))
	}
	return out
}
