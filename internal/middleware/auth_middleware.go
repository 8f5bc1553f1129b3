package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"resto-backoffice/internal/access"
	"resto-backoffice/internal/service"
)

const principalKey = "principal"

// RequireAuth validates the bearer token and stores the principal captured at
// login in the request locals.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		principal, err := auth.Authenticate(token)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}

		c.Locals(principalKey, principal)
		c.Locals("user_id", principal.UserID().String())
		return c.Next()
	}
}

// CurrentPrincipal returns the principal set by RequireAuth.
func CurrentPrincipal(c *fiber.Ctx) (access.Principal, bool) {
	p, ok := c.Locals(principalKey).(access.Principal)
	return p, ok
}

// CurrentActor is the audit identity of the request, or the system actor when
// the route is not authenticated.
func CurrentActor(c *fiber.Ctx) service.Actor {
	p, ok := CurrentPrincipal(c)
	if !ok {
		return service.SystemActor
	}
	return service.Actor{ID: p.UserID().String(), Name: p.Name(), Email: p.Email()}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := CurrentPrincipal(c)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}
		if !p.Can(requiredPrivilege) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
			})
		}
		return c.Next()
	}
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := CurrentPrincipal(c)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}
		if !p.CanAny(requiredPrivileges...) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges",
			})
		}
		return c.Next()
	}
}

// RequireModule lets through anyone holding at least one permission of module.
func RequireModule(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := CurrentPrincipal(c)
		if !ok || !p.CanAccess(module) {
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden: no access to " + module})
		}
		return c.Next()
	}
}
