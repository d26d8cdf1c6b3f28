package site

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/christinakneis/personal-site/content"
)

const adminPageSize = 20

func (a *App) handleAdminRoot(c echo.Context) error {
	if !isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/dashboard/")
}

func (a *App) handleAdminLoginForm(c echo.Context) error {
	if isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/dashboard/")
	}
	return render(c, a.Views.AdminLogin(false, csrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	user, ok := a.Users.Authenticate(c.FormValue("username"), c.FormValue("password"))
	if !ok {
		return render(c, a.Views.AdminLogin(true, csrfToken(c)))
	}
	if err := setAdminSession(c, user.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/dashboard/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/login/")
}

func (a *App) handleAdminSetupForm(c echo.Context) error {
	exists, err := a.Users.HasAdmin()
	if err != nil {
		return err
	}
	if exists {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	return render(c, a.Views.AdminSetup("", csrfToken(c)))
}

// handleAdminSetup creates the first admin account and seeds the default
// pagination settings. Once an admin exists the route only redirects.
func (a *App) handleAdminSetup(c echo.Context) error {
	_, err := a.Users.CreateAdmin(
		c.FormValue("username"),
		c.FormValue("email"),
		c.FormValue("password"),
	)
	if err != nil {
		var valErr *ValidationError
		if errors.As(err, &valErr) {
			return render(c, a.Views.AdminSetup(valErr.Error(), csrfToken(c)))
		}
		var conflictErr *ConflictError
		if errors.As(err, &conflictErr) {
			return c.Redirect(http.StatusSeeOther, "/admin/login/")
		}
		return err
	}
	if err := a.Settings.SeedDefaults(); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/login/")
}

func (a *App) handleAdminDashboard(c echo.Context) error {
	if !isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	stats, err := a.Posts.Stats()
	if err != nil {
		return err
	}
	recent, err := a.Posts.Recent(5)
	if err != nil {
		return err
	}
	return render(c, a.Views.AdminDashboard(stats, recent,
		a.Settings.Get(SettingPostsPerPage, DefaultPostsPerPage),
		a.Settings.Get(SettingBlogPostsPerPage, DefaultBlogPostsPerPage),
		csrfToken(c)))
}

func (a *App) handleAdminPosts(c echo.Context) error {
	if !isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	posts, err := a.Posts.ListAll()
	if err != nil {
		return err
	}
	totalPages := (len(posts) + adminPageSize - 1) / adminPageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * adminPageSize
	end := start + adminPageSize
	if end > len(posts) {
		end = len(posts)
	}
	return render(c, a.Views.AdminPosts(posts[start:end], page, totalPages, c.QueryParam("msg"), csrfToken(c)))
}

// postInputFromForm reads the shared post form fields.
func postInputFromForm(c echo.Context) PostInput {
	order, _ := strconv.Atoi(strings.TrimSpace(c.FormValue("display_order")))
	return PostInput{
		Title:        strings.TrimSpace(c.FormValue("title")),
		Content:      c.FormValue("content"),
		ContentType:  content.ParseType(c.FormValue("content_type")),
		Preview:      strings.TrimSpace(c.FormValue("preview")),
		Image:        strings.TrimSpace(c.FormValue("image")),
		Published:    c.FormValue("published") != "",
		Featured:     c.FormValue("featured") != "",
		ShowDates:    c.FormValue("show_dates") != "",
		DisplayOrder: order,
	}
}

func (a *App) handleAdminPostNewForm(c echo.Context) error {
	if !isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	return render(c, a.Views.AdminPostForm(Post{ShowDates: true, ContentType: content.TypeMarkdown}, true, "", csrfToken(c)))
}

func (a *App) handleAdminPostNew(c echo.Context) error {
	if !isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	in := postInputFromForm(c)
	_, err := a.Posts.Create(in)
	if err != nil {
		if userFacing(err) {
			draft := Post{Title: in.Title, Content: in.Content, ContentType: in.ContentType,
				Preview: in.Preview, Image: in.Image, Published: in.Published,
				Featured: in.Featured, ShowDates: in.ShowDates, DisplayOrder: in.DisplayOrder}
			return render(c, a.Views.AdminPostForm(draft, true, err.Error(), csrfToken(c)))
		}
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/posts/?msg="+url.QueryEscape("Post created successfully!"))
}

func (a *App) handleAdminPostEditForm(c echo.Context) error {
	if !isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	post, err := a.Posts.Get(id)
	if err != nil {
		return err
	}
	return render(c, a.Views.AdminPostForm(post, false, "", csrfToken(c)))
}

func (a *App) handleAdminPostEdit(c echo.Context) error {
	if !isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	in := postInputFromForm(c)
	if _, err := a.Posts.Update(id, in); err != nil {
		if userFacing(err) {
			post, getErr := a.Posts.Get(id)
			if getErr != nil {
				return getErr
			}
			return render(c, a.Views.AdminPostForm(post, false, err.Error(), csrfToken(c)))
		}
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/posts/?msg="+url.QueryEscape("Post updated successfully!"))
}

func (a *App) handleAdminPostDelete(c echo.Context) error {
	if !isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	if err := a.Posts.Delete(id); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/posts/?msg="+url.QueryEscape("Post deleted successfully!"))
}

// handleAdminTogglePublish flips a post's published flag. Form submissions
// get a redirect; JSON callers get the new state. The underlying mutation is
// identical either way.
func (a *App) handleAdminTogglePublish(c echo.Context) error {
	if !isAdmin(c) {
		if wantsJSON(c) {
			return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "message": "not authenticated"})
		}
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	post, err := a.Posts.TogglePublish(id)
	if err != nil {
		return err
	}
	a.Cache.Invalidate()

	status := "unpublished"
	if post.Published {
		status = "published"
	}
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, map[string]any{
			"success":   true,
			"published": post.Published,
			"status":    status,
		})
	}
	return c.Redirect(http.StatusSeeOther, "/admin/posts/?msg="+url.QueryEscape("Post "+status+" successfully!"))
}

func (a *App) handleAdminReorderPage(c echo.Context) error {
	if !isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	posts, err := a.Posts.ListPublished()
	if err != nil {
		return err
	}
	return render(c, a.Views.AdminReorder(posts, csrfToken(c)))
}

// reorderRequest is the drag-and-drop client's JSON body.
type reorderRequest struct {
	Posts []ReorderItem `json:"posts"`
}

// handleAdminReorder applies a reorder batch. Payloads that are not a JSON
// object with a "posts" list are rejected outright; everything past that
// follows Posts.Reorder's skip/abort semantics.
func (a *App) handleAdminReorder(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "message": "not authenticated"})
	}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "request must be JSON"})
	}
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "malformed JSON body"})
	}
	if req.Posts == nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": `missing "posts" list`})
	}

	applied, err := a.Posts.Reorder(req.Posts)
	// Anything may have been written before an abort, so invalidate first.
	a.Cache.Invalidate()
	if err != nil {
		var notFoundErr *NotFoundError
		if errors.As(err, &notFoundErr) {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		}
		c.Logger().Errorf("reorder failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "message": "server error"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Posts reordered successfully",
		"count":   applied,
	})
}

func (a *App) handleAdminSettingsForm(c echo.Context) error {
	if !isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	return render(c, a.Views.AdminSettings(
		a.Settings.Get(SettingPostsPerPage, DefaultPostsPerPage),
		a.Settings.Get(SettingBlogPostsPerPage, DefaultBlogPostsPerPage),
		c.QueryParam("msg"), csrfToken(c)))
}

func (a *App) handleAdminSettings(c echo.Context) error {
	if !isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	postsPerPage := strings.TrimSpace(c.FormValue("posts_per_page"))
	if postsPerPage == "" {
		postsPerPage = DefaultPostsPerPage
	}
	blogPerPage := strings.TrimSpace(c.FormValue("blog_posts_per_page"))
	if blogPerPage == "" {
		blogPerPage = DefaultBlogPostsPerPage
	}
	if err := a.Settings.Set(SettingPostsPerPage, postsPerPage, "Number of posts to show on homepage"); err != nil {
		return err
	}
	if err := a.Settings.Set(SettingBlogPostsPerPage, blogPerPage, "Number of posts to show per page on blog"); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/settings/?msg="+url.QueryEscape("Settings updated successfully!"))
}

func (a *App) handleAdminGallery(c echo.Context) error {
	if !isAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/login/")
	}
	images, err := a.Images.Gallery()
	if err != nil {
		return err
	}
	return render(c, a.Views.AdminGallery(images, c.QueryParam("msg"), csrfToken(c)))
}

func (a *App) handleAdminImageUpload(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "message": "not authenticated"})
	}
	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "no image file provided"})
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, err := a.Images.Upload(file.Filename, file.Size, src)
	if err != nil {
		var badReqErr *BadRequestError
		if errors.As(err, &badReqErr) {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"url":         img.URL,
		"storagePath": img.StoragePath,
		"filename":    img.Filename,
	})
}

func (a *App) handleAdminImageDelete(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "message": "not authenticated"})
	}
	if err := a.Images.Delete(c.Param("filename")); err != nil {
		var notFoundErr *NotFoundError
		if errors.As(err, &notFoundErr) {
			return c.JSON(http.StatusNotFound, map[string]any{"success": false, "message": err.Error()})
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// userFacing reports whether an error should re-render the submitting form
// instead of bubbling to the error handler.
func userFacing(err error) bool {
	var valErr *ValidationError
	var conflictErr *ConflictError
	return errors.As(err, &valErr) || errors.As(err, &conflictErr)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &BadRequestError{Reason: "invalid id"}
	}
	return id, nil
}
