package server

import (
	"html/template"

	"bookshelf/internal/views/form"
)

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"selected": form.Selected,
}).Parse(layoutTemplate + welcomeTemplate + booksTemplate + authorsTemplate))

const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Bookshelf</title>
  <style>` + cssContent + `</style>
</head>
<body>
  <nav class="navbar">
    <a class="brand" href="/nav/welcome">Bookshelf</a>
    <a href="/nav/books"{{if eq .Page "books"}} class="active"{{end}}>Books</a>
    <a href="/nav/authors"{{if eq .Page "authors"}} class="active"{{end}}>Authors</a>
  </nav>

  <div class="notifications">
  {{range .Notifications}}
    <div class="alert alert-{{.Kind}}" role="alert">
      <span>{{.Message}}</span>
      <form method="post" action="/notifications/{{.Id}}/dismiss">
        <button type="submit" class="close" aria-label="Close">&times;</button>
      </form>
    </div>
  {{end}}
  </div>

  <main>
  {{if eq .Page "books"}}{{template "books" .Books}}{{else if eq .Page "authors"}}{{template "authors" .Authors}}{{else}}{{template "welcome"}}{{end}}
  </main>

  {{if .Confirm.Open}}
  <div class="modal">
    <div class="dialog">
      <h2>Confirm</h2>
      <p>{{.Confirm.Message}}</p>
      <div class="buttons">
        <form method="post" action="/confirm"><button type="submit" class="danger">Delete</button></form>
        <form method="post" action="/confirm/dismiss"><button type="submit">Cancel</button></form>
      </div>
    </div>
  </div>
  {{end}}
</body>
</html>{{end}}`

const welcomeTemplate = `{{define "welcome"}}
<section class="welcome">
  <h1>Welcome to Bookshelf</h1>
  <p>Manage the books of the catalog and the authors who wrote them.</p>
  <div class="buttons">
    <a class="button" href="/nav/books">Browse books</a>
    <a class="button" href="/nav/authors">Browse authors</a>
  </div>
</section>
{{end}}`

const booksTemplate = `{{define "books"}}
<section>
  <div class="toolbar">
    <h1>Books</h1>
    <form method="get" action="/books/search">
      <input type="search" name="q" value="{{.Query}}" placeholder="Search by title, ISBN or category">
      <button type="submit">Search</button>
    </form>
    <a class="button" href="/books/new">Add Book</a>
  </div>

  <table>
    <thead>
      <tr><th>ISBN</th><th>Title</th><th>Category</th><th>Year</th><th>Authors</th><th></th></tr>
    </thead>
    <tbody>
    {{range .Rows}}
      <tr>
        <td>{{.Book.Isbn}}</td>
        <td>{{.Book.Title}}</td>
        <td>{{.Book.Category}}</td>
        <td>{{.Book.PublicationYear}}</td>
        <td>{{.AuthorNames}}</td>
        <td class="actions">
          <a href="/books/{{.Book.Id}}">Details</a>
          <a href="/books/{{.Book.Id}}/edit">Edit</a>
          <form method="post" action="/books/{{.Book.Id}}/delete"><button type="submit" class="danger">Delete</button></form>
        </td>
      </tr>
    {{else}}
      <tr><td colspan="6" class="empty">{{if .NoResults}}No books found{{else}}No books yet{{end}}</td></tr>
    {{end}}
    </tbody>
  </table>

  {{if .Form.Open}}
  <div class="modal">
    <form method="post" action="/books/save" class="dialog">
      <h2>{{.Form.Title}}</h2>
      <label>ISBN <input name="isbn" value="{{.Form.Values.Isbn}}"></label>
      <label>Title <input name="title" value="{{.Form.Values.Title}}"></label>
      <label>Category <input name="category" value="{{.Form.Values.Category}}"></label>
      <label>Publication Year <input name="publicationYear" value="{{.Form.Values.PublicationYear}}"></label>
      <label>Authors
        <select name="authorIds" multiple>
        {{$ids := .Form.Values.AuthorIds}}
        {{range .Authors}}
          <option value="{{.Id}}"{{if selected $ids .Id}} selected{{end}}>{{.Name}}</option>
        {{end}}
        </select>
      </label>
      <div class="buttons">
        <button type="submit">Save</button>
        <button type="submit" formaction="/books/cancel">Cancel</button>
      </div>
    </form>
  </div>
  {{end}}

  {{with .Details}}
  <div class="modal">
    <div class="dialog">
      <h2>{{.Title}}</h2>
      <dl>
        <dt>ISBN</dt><dd>{{.Isbn}}</dd>
        <dt>Category</dt><dd>{{.Category}}</dd>
        <dt>Publication Year</dt><dd>{{.PublicationYear}}</dd>
      </dl>
      <h3>Authors</h3>
      <ul>
      {{range .Authors}}
        <li>
          {{.Name}}{{with .Nationality}} ({{.}}){{end}}
          <form method="post" action="/books/{{$.Details.Id}}/authors/detach">
            <input type="hidden" name="authorIds" value="{{.Id}}">
            <button type="submit">Remove</button>
          </form>
        </li>
      {{else}}
        <li>No authors</li>
      {{end}}
      </ul>
      <form method="post" action="/books/{{.Id}}/authors/attach">
        <select name="authorIds" multiple>
        {{range $.Authors}}<option value="{{.Id}}">{{.Name}}</option>{{end}}
        </select>
        <button type="submit">Add authors</button>
      </form>
      <form method="post" action="/books/details/close"><button type="submit">Close</button></form>
    </div>
  </div>
  {{end}}
</section>
{{end}}`

const authorsTemplate = `{{define "authors"}}
<section>
  <div class="toolbar">
    <h1>Authors</h1>
    <form method="get" action="/authors/search">
      <input type="search" name="q" value="{{.Query}}" placeholder="Search by name or nationality">
      <button type="submit">Search</button>
    </form>
    <a class="button" href="/authors/new">Add Author</a>
  </div>

  <table>
    <thead>
      <tr><th>Name</th><th>Nationality</th><th>Date of Birth</th><th>Books</th><th></th></tr>
    </thead>
    <tbody>
    {{range .Rows}}
      <tr>
        <td>{{.Author.Name}}</td>
        <td>{{or .Author.Nationality "N/A"}}</td>
        <td>{{.DateOfBirth}}</td>
        <td>{{.BookTitles}}</td>
        <td class="actions">
          <a href="/authors/{{.Author.Id}}">Details</a>
          <a href="/authors/{{.Author.Id}}/edit">Edit</a>
          <form method="post" action="/authors/{{.Author.Id}}/delete"><button type="submit" class="danger">Delete</button></form>
        </td>
      </tr>
    {{else}}
      <tr><td colspan="5" class="empty">{{if .NoResults}}No authors found{{else}}No authors yet{{end}}</td></tr>
    {{end}}
    </tbody>
  </table>

  {{if .Form.Open}}
  <div class="modal">
    <form method="post" action="/authors/save" class="dialog">
      <h2>{{.Form.Title}}</h2>
      <label>Name <input name="name" value="{{.Form.Values.Name}}"></label>
      <label>Nationality <input name="nationality" value="{{.Form.Values.Nationality}}"></label>
      <label>Date of Birth <input type="date" name="dateOfBirth" value="{{.Form.Values.DateOfBirth}}"></label>
      <label>Books
        <select name="bookIds" multiple>
        {{$ids := .Form.Values.BookIds}}
        {{range .Books}}
          <option value="{{.Id}}"{{if selected $ids .Id}} selected{{end}}>{{.Title}}</option>
        {{end}}
        </select>
      </label>
      <div class="buttons">
        <button type="submit">Save</button>
        <button type="submit" formaction="/authors/cancel">Cancel</button>
      </div>
    </form>
  </div>
  {{end}}

  {{with .Details}}
  <div class="modal">
    <div class="dialog">
      <h2>{{.Name}}</h2>
      <dl>
        <dt>Nationality</dt><dd>{{or .Nationality "N/A"}}</dd>
        <dt>Date of Birth</dt><dd>{{$.DetailsDateOfBirth}}</dd>
      </dl>
      <h3>Books</h3>
      <ul>
      {{range .Books}}
        <li>
          {{.Title}} ({{.PublicationYear}})
          <form method="post" action="/authors/{{$.Details.Id}}/books/detach">
            <input type="hidden" name="bookIds" value="{{.Id}}">
            <button type="submit">Remove</button>
          </form>
        </li>
      {{else}}
        <li>No books</li>
      {{end}}
      </ul>
      <form method="post" action="/authors/{{.Id}}/books/attach">
        <select name="bookIds" multiple>
        {{range $.Books}}<option value="{{.Id}}">{{.Title}}</option>{{end}}
        </select>
        <button type="submit">Add books</button>
      </form>
      <form method="post" action="/authors/details/close"><button type="submit">Close</button></form>
    </div>
  </div>
  {{end}}
</section>
{{end}}`

const cssContent = `
body { margin: 0; font-family: system-ui, sans-serif; color: #212529; background: #f8f9fa; }
main { max-width: 1100px; margin: 0 auto; padding: 1.5rem; }
.navbar { display: flex; gap: 1rem; align-items: center; padding: .75rem 1.5rem; background: #343a40; }
.navbar a { color: #dee2e6; text-decoration: none; }
.navbar a.active, .navbar .brand { color: #fff; font-weight: 600; }
.toolbar { display: flex; gap: 1rem; align-items: center; justify-content: space-between; }
table { width: 100%; border-collapse: collapse; background: #fff; }
th, td { padding: .5rem; border-bottom: 1px solid #dee2e6; text-align: left; }
td.empty { text-align: center; color: #868e96; }
td.actions form, .dialog li form, .buttons form { display: inline; }
.button, button { padding: .375rem .75rem; border: 1px solid #228be6; border-radius: 4px; background: #fff; color: #228be6; cursor: pointer; text-decoration: none; }
button.danger { border-color: #e03131; color: #e03131; }
.notifications { position: fixed; top: 1rem; right: 1rem; width: 320px; z-index: 20; }
.alert { display: flex; justify-content: space-between; margin-bottom: .5rem; padding: .75rem 1rem; border-radius: 4px; }
.alert-success { background: #d3f9d8; }
.alert-danger { background: #ffe3e3; }
.alert-info { background: #e7f5ff; }
.alert button.close { border: none; background: none; color: inherit; }
.modal { position: fixed; inset: 0; display: flex; align-items: center; justify-content: center; background: rgba(0,0,0,.4); z-index: 10; }
.dialog { min-width: 420px; padding: 1.5rem; border-radius: 6px; background: #fff; }
.dialog label { display: block; margin-bottom: .75rem; }
.dialog input, .dialog select { display: block; width: 100%; }
.buttons { display: flex; gap: .5rem; justify-content: flex-end; }
`
