package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/codelime/codelime-cli/internal/core/domain"
)

var projectsJSON bool

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List and inspect projects",
	RunE:  runProjectsList,
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects",
	RunE:  runProjectsList,
}

var projectsGetCmd = &cobra.Command{
	Use:   "get <project-id>",
	Short: "Show one project with its questions",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsGet,
}

var projectsInheritableCmd = &cobra.Command{
	Use:   "inheritable",
	Short: "List projects whose questions can be inherited from",
	RunE:  runProjectsInheritable,
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and all its data",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDelete,
}

func init() {
	projectsCmd.PersistentFlags().BoolVar(&projectsJSON, "json", false, "output as JSON")
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsGetCmd)
	projectsCmd.AddCommand(projectsInheritableCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	rootCmd.AddCommand(projectsCmd)
}

func runProjectsList(cmd *cobra.Command, _ []string) error {
	api, err := getAPI(cmd.Context())
	if err != nil {
		return err
	}
	projects, err := api.ListProjects(cmd.Context())
	if err != nil {
		return err
	}
	return printProjects(cmd, projects)
}

func runProjectsInheritable(cmd *cobra.Command, _ []string) error {
	api, err := getAPI(cmd.Context())
	if err != nil {
		return err
	}
	projects, err := api.ListInheritableProjects(cmd.Context())
	if err != nil {
		return err
	}
	return printProjects(cmd, projects)
}

func runProjectsGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	api, err := getAPI(cmd.Context())
	if err != nil {
		return err
	}
	project, err := api.GetProject(cmd.Context(), id)
	if err != nil {
		return err
	}

	if projectsJSON {
		return printJSON(cmd, project)
	}
	cmd.Printf("Project %s: %s (%s)\n", formatID(project.ID), project.Name, project.Language)
	for _, q := range project.Questions {
		cmd.Printf("  question %s: %s (%d codes)\n", formatID(q.ID), q.Name, len(q.Codebook))
	}
	if len(project.AuxiliaryColumnNames) > 0 {
		cmd.Printf("  auxiliary columns: %v\n", project.AuxiliaryColumnNames)
	}
	return nil
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	api, err := getAPI(cmd.Context())
	if err != nil {
		return err
	}
	if err := api.DeleteProject(cmd.Context(), id); err != nil {
		return err
	}
	cmd.Printf("Deleted project %d\n", id)
	return nil
}

func printProjects(cmd *cobra.Command, projects []domain.Project) error {
	if projectsJSON {
		return printJSON(cmd, projects)
	}
	if len(projects) == 0 {
		cmd.Println("No projects.")
		return nil
	}
	for _, p := range projects {
		cmd.Printf("%s  %s (%s, %d questions)\n", formatID(p.ID), p.Name, p.Language, len(p.Questions))
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a valid id", domain.ErrInvalidInput, s)
	}
	return id, nil
}

func formatID(id *int) string {
	if id == nil {
		return "-"
	}
	return strconv.Itoa(*id)
}
