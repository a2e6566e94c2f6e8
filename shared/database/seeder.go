package database

import (
	"fmt"
	"log"
	"time"

	"saasgrid-backend/shared/config"
	"saasgrid-backend/shared/database/models"
	auditinfo "saasgrid-backend/shared/utils/audit"
	utils "saasgrid-backend/shared/utils/auth"
)

// SeedDatabase seeds the database with initial data
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	// Seed Resources
	resourcesCreated, err := seedResources()
	if err != nil {
		return err
	}

	// Seed Actions
	actionsCreated, err := seedActions()
	if err != nil {
		return err
	}

	if resourcesCreated > 0 || actionsCreated > 0 {
		log.Printf("✅ Database seeding completed (%d resources, %d actions created)", resourcesCreated, actionsCreated)
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	// Create platform tenant and super admin from config
	if err := CreatePlatformTenantFromConfig(); err != nil {
		return err
	}

	// Seed super admin permissions (wildcard permissions)
	permissionsCreated, err := seedSuperAdminPermissions()
	if err != nil {
		return err
	}

	if permissionsCreated > 0 {
		log.Printf("✅ Super admin permissions created: %d wildcard permissions", permissionsCreated)
	}

	return nil
}

// seedResources creates default resources
func seedResources() (int, error) {
	resources := []models.Resource{
		{Name: "All Resources", Slug: "ALL", Description: "Wildcard access to all resources", IsSystem: true},
		{Name: "Tenants", Slug: "tenants", Description: "Tenant management", IsSystem: true},
		{Name: "Organizations", Slug: "organizations", Description: "Organization management", IsSystem: true},
		{Name: "Departments", Slug: "departments", Description: "Department tree management", IsSystem: true},
		{Name: "Users", Slug: "users", Description: "User management", IsSystem: true},
		{Name: "Roles", Slug: "roles", Description: "Role management", IsSystem: true},
		{Name: "Permissions", Slug: "permissions", Description: "Permission management", IsSystem: true},
		{Name: "Notifications", Slug: "notifications", Description: "Notification management", IsSystem: true},
		{Name: "Exports", Slug: "exports", Description: "Tenant data exports", IsSystem: true},
	}

	created := 0
	for _, resource := range resources {
		var existing models.Resource
		result := DB.Where("slug = ?", resource.Slug).First(&existing)
		if result.Error != nil {
			if err := DB.Create(&resource).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}

// seedActions creates default actions
func seedActions() (int, error) {
	actions := []models.Action{
		{Name: "Create", Slug: "create", Description: "Create new records", IsSystem: true},
		{Name: "Read", Slug: "read", Description: "View/read records", IsSystem: true},
		{Name: "Update", Slug: "update", Description: "Update existing records", IsSystem: true},
		{Name: "Delete", Slug: "delete", Description: "Delete records", IsSystem: true},
		{Name: "Export", Slug: "export", Description: "Export data", IsSystem: false},
		{Name: "Manage", Slug: "manage", Description: "Full management access", IsSystem: true},
	}

	created := 0
	for _, action := range actions {
		var existing models.Action
		result := DB.Where("slug = ?", action.Slug).First(&existing)
		if result.Error != nil {
			if err := DB.Create(&action).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}

// CreatePlatformTenantFromConfig bootstraps the platform tenant and super
// admin using config values
func CreatePlatformTenantFromConfig() error {
	cfg := config.GetConfig()
	return CreatePlatformTenant(cfg.PlatformTenantSlug, cfg.SuperAdminEmail, cfg.SuperAdminPassword)
}

// CreatePlatformTenant creates the platform tenant with its admin
// organization, super admin role and super admin user
func CreatePlatformTenant(tenantSlug, email, password string) error {
	// Platform tenant is the home of cross-tenant administration
	var platformTenant models.Tenant
	err := DB.Where("slug = ?", tenantSlug).First(&platformTenant).Error
	if err != nil {
		platformTenant = models.Tenant{
			Name:         "Platform",
			Slug:         tenantSlug,
			Type:         models.TenantTypeEnterprise,
			Status:       models.TenantStatusActive,
			ContactEmail: email,
			Info:         auditinfo.NewBuilder().Build(),
		}

		if err := DB.Create(&platformTenant).Error; err != nil {
			return err
		}
		log.Printf("✅ Platform tenant created: %s", tenantSlug)
	}

	var existingUser models.User
	if err := DB.Where("tenant_id = ? AND email = ?", platformTenant.ID, email).First(&existingUser).Error; err == nil {
		log.Println("Super admin already exists")
		return nil
	}

	var adminOrg models.Organization
	err = DB.Where("tenant_id = ? AND slug = ?", platformTenant.ID, "platform-admin").First(&adminOrg).Error
	if err != nil {
		adminOrg = models.Organization{
			TenantID: platformTenant.ID,
			Name:     "Platform Administration",
			Slug:     "platform-admin",
			Status:   models.OrganizationStatusActive,
			Info:     auditinfo.NewBuilder().Build(),
		}

		if err := DB.Create(&adminOrg).Error; err != nil {
			return err
		}
	}

	// Check if super admin role already exists
	var superAdminRole models.Role
	err = DB.Where("tenant_id = ? AND name = ?", platformTenant.ID, "Super Admin").First(&superAdminRole).Error
	if err != nil {
		superAdminRole = models.Role{
			TenantID:       platformTenant.ID,
			Name:           "Super Admin",
			Description:    "Full system access",
			IsDefault:      false,
			OrganizationID: &adminOrg.ID,
			Info:           auditinfo.NewBuilder().Build(),
		}

		if err := DB.Create(&superAdminRole).Error; err != nil {
			return err
		}
	}

	// Hash password before creating user
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	superAdminUser := models.User{
		TenantID:       platformTenant.ID,
		Email:          email,
		Password:       hashedPassword,
		FirstName:      "Super",
		LastName:       "Admin",
		Status:         models.UserStatusActive,
		OrganizationID: &adminOrg.ID,
		RoleID:         &superAdminRole.ID,
		Info:           auditinfo.NewBuilder().Build(),
	}

	if err := DB.Create(&superAdminUser).Error; err != nil {
		return err
	}

	// Update organization owner to actual user ID
	adminOrg.OwnerID = &superAdminUser.ID
	DB.Save(&adminOrg)

	log.Printf("✅ Super admin created: %s", email)
	return nil
}

// seedSuperAdminPermissions creates wildcard permissions for super admin
func seedSuperAdminPermissions() (int, error) {
	// First check if super admin role exists
	var superAdminRole models.Role
	if err := DB.Where("name = ?", "Super Admin").First(&superAdminRole).Error; err != nil {
		log.Println("⚠️  Super admin role not found, skipping permission seeding")
		return 0, nil
	}

	// Get ALL resource (wildcard resource)
	var allResource models.Resource
	if err := DB.Where("slug = ?", "ALL").First(&allResource).Error; err != nil {
		return 0, fmt.Errorf("ALL resource not found: %v", err)
	}

	// Get all actions
	var actions []models.Action
	if err := DB.Find(&actions).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch actions: %v", err)
	}

	// Check if permission already exists for ALL resource
	var existingPermission models.Permission
	result := DB.Where("resource_id = ? AND target = ? AND role_id = ?",
		allResource.ID, models.PermissionTargetRole, superAdminRole.ID).First(&existingPermission)

	var permission models.Permission
	permissionExists := (result.Error == nil)
	createdCount := 0

	if !permissionExists {
		// Create new permission for ALL resource
		permission = models.Permission{
			TenantID:   &superAdminRole.TenantID,
			ResourceID: allResource.ID,
			Target:     models.PermissionTargetRole,
			RoleID:     &superAdminRole.ID,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}

		if err := DB.Create(&permission).Error; err != nil {
			return 0, fmt.Errorf("failed to create ALL permission: %v", err)
		}
		createdCount = 1
		log.Printf("✅ Created super admin ALL resource permission")
	} else {
		permission = existingPermission
		log.Println("✅ Super admin ALL resource permission already exists")
	}

	// Now create permission actions for all actions if they don't exist
	actionsCreated := 0
	for _, action := range actions {
		var existingPermissionAction models.PermissionAction
		actionResult := DB.Where("permission_id = ? AND action_id = ?",
			permission.ID, action.ID).First(&existingPermissionAction)

		if actionResult.Error == nil {
			continue
		}

		permissionAction := models.PermissionAction{
			PermissionID: permission.ID,
			ActionID:     action.ID,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		if err := DB.Create(&permissionAction).Error; err != nil {
			return createdCount, fmt.Errorf("failed to create permission action for ALL resource, action %s: %v",
				action.Name, err)
		}
		actionsCreated++
	}

	if createdCount > 0 {
		log.Printf("✅ Created super admin ALL permission with %d actions", len(actions))
	} else if actionsCreated > 0 {
		log.Printf("✅ Super admin ALL permission updated with %d actions", actionsCreated)
	}

	return createdCount, nil
}
