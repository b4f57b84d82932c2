package gen

import (
	"encoding/xml"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

//
// structures for .vcxproj
//

type VSProject struct {
	XMLName              xml.Name                `xml:"Project"`
	DefaultTargets       string                  `xml:"DefaultTargets,attr"`
	ToolsVersion         string                  `xml:"ToolsVersion,attr"`
	XMLNS                string                  `xml:"xmlns,attr"`
	ItemGroups           []VSItemGroup           `xml:"ItemGroup"`
	PropertyGroups       []VSPropertyGroup       `xml:"PropertyGroup"`
	ItemDefinitionGroups []VSItemDefinitionGroup `xml:"ItemDefinitionGroup"`
	Imports              []VSImport              `xml:"Import"`
}

type VSItemGroup struct {
	Label                 string                   `xml:"Label,attr,omitempty"`
	ProjectConfigurations []VSProjectConfiguration `xml:"ProjectConfiguration,omitempty"`
	ClCompiles            []VSFileItem             `xml:"ClCompile,omitempty"`
	ClIncludes            []VSFileItem             `xml:"ClInclude,omitempty"`
}

type VSProjectConfiguration struct {
	Include       string `xml:"Include,attr"`
	Configuration string `xml:"Configuration"`
	Platform      string `xml:"Platform"`
}

type VSFileItem struct {
	Include string `xml:"Include,attr"`
}

type VSPropertyGroup struct {
	Label                        string `xml:"Label,attr,omitempty"`
	Condition                    string `xml:"Condition,attr,omitempty"`
	ProjectGuid                  string `xml:"ProjectGuid,omitempty"`
	Keyword                      string `xml:"Keyword,omitempty"`
	WindowsTargetPlatformVersion string `xml:"WindowsTargetPlatformVersion,omitempty"`
	ProjectName                  string `xml:"ProjectName,omitempty"`
	ConfigurationType            string `xml:"ConfigurationType,omitempty"`
	PlatformToolset              string `xml:"PlatformToolset,omitempty"`
	CharacterSet                 string `xml:"CharacterSet,omitempty"`
	UseDebugLibraries            *bool  `xml:"UseDebugLibraries,omitempty"`
	OutDir                       string `xml:"OutDir,omitempty"`
	IntDir                       string `xml:"IntDir,omitempty"`
	TargetName                   string `xml:"TargetName,omitempty"`
	TargetExt                    string `xml:"TargetExt,omitempty"`
}

type VSImport struct {
	Project string `xml:"Project,attr"`
}

type VSItemDefinitionGroup struct {
	Condition      string          `xml:"Condition,attr"`
	ClCompile      VSCppCompileDef `xml:"ClCompile"`
	Link           VSLinkDef       `xml:"Link"`
	PostBuildEvent *VSBuildEvent   `xml:"PostBuildEvent,omitempty"`
}

type VSCppCompileDef struct {
	AdditionalIncludeDirectories string `xml:"AdditionalIncludeDirectories"`
	PreprocessorDefinitions      string `xml:"PreprocessorDefinitions"`
	AdditionalOptions            string `xml:"AdditionalOptions,omitempty"`
	ExceptionHandling            string `xml:"ExceptionHandling,omitempty"`
	DebugInformationFormat       string `xml:"DebugInformationFormat,omitempty"`
}

type VSLinkDef struct {
	SubSystem                    string `xml:"SubSystem"`
	GenerateDebugInformation     *bool  `xml:"GenerateDebugInformation,omitempty"`
	AdditionalDependencies       string `xml:"AdditionalDependencies"`
	AdditionalLibraryDirectories string `xml:"AdditionalLibraryDirectories"`
	ProgramDataBaseFile          string `xml:"ProgramDataBaseFile,omitempty"`
	AdditionalOptions            string `xml:"AdditionalOptions,omitempty"`
}

type VSBuildEvent struct {
	Command string `xml:"Command"`
}

//
// generator
//

// VS2022Gen writes a .vcxproj per module and a solution referencing them.
type VS2022Gen struct{}

func (g *VS2022Gen) ModuleFile(m *Module) string { return m.Name + ".vcxproj" }
func (g *VS2022Gen) ParentFile() string          { return "pyvoip.sln" }

// projectGuid is derived from the module name and configuration so that
// regenerating a solution keeps its project identities.
func projectGuid(m *Module) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("pyvoip:"+m.Name+":"+m.configuration()))
	return strings.ToUpper(id.String())
}

// msvcFlags drops the flags that have a dedicated vcxproj element
func msvcFlags(flags []string, dedicated ...string) string {
	var kept []string
	for _, flag := range flags {
		if !slices.Contains(dedicated, flag) {
			kept = append(kept, flag)
		}
	}
	return strings.Join(kept, " ") + " %(AdditionalOptions)"
}

func (g *VS2022Gen) GenerateModule(m *Module) (string, error) {
	trueVal := true
	config := m.configuration()
	platform := config + "|x64"
	condition := "'$(Configuration)|$(Platform)'=='" + platform + "'"

	var sources, headers []VSFileItem
	for _, src := range m.Sources {
		sources = append(sources, VSFileItem{Include: src})
	}
	for _, hdr := range m.Headers {
		headers = append(headers, VSFileItem{Include: hdr})
	}

	libs := make([]string, 0, len(m.Libs))
	for _, lib := range m.Libs {
		libs = append(libs, libFile(lib))
	}

	target := strings.TrimSuffix(m.TargetFile(), ".pyd")
	installDir := winPath(m.InstallDir)

	project := VSProject{
		DefaultTargets: "Build",
		ToolsVersion:   "17.0",
		XMLNS:          "http://schemas.microsoft.com/developer/msbuild/2003",
		ItemGroups: []VSItemGroup{
			{
				Label:                 "ProjectConfigurations",
				ProjectConfigurations: []VSProjectConfiguration{{Include: platform, Configuration: config, Platform: "x64"}},
			},
			{ClCompiles: sources},
			{ClIncludes: headers},
		},
		PropertyGroups: []VSPropertyGroup{
			{
				Label:                        "Globals",
				ProjectGuid:                  "{" + projectGuid(m) + "}",
				Keyword:                      "Win32Proj",
				WindowsTargetPlatformVersion: "10.0",
				ProjectName:                  m.Name,
			},
			{
				Condition:         condition,
				Label:             "Configuration",
				ConfigurationType: "DynamicLibrary",
				PlatformToolset:   "v143",
				CharacterSet:      "MultiByte",
				UseDebugLibraries: &m.Debug,
			},
			{
				Condition:  condition,
				OutDir:     winPath(m.Dir) + `\`,
				IntDir:     winPath(filepath.Join(m.Dir, "int")) + `\`,
				TargetName: target,
				TargetExt:  ".pyd",
			},
		},
		ItemDefinitionGroups: []VSItemDefinitionGroup{
			{
				Condition: condition,
				ClCompile: VSCppCompileDef{
					AdditionalIncludeDirectories: strings.Join(append([]string{winPath(m.Dir)}, m.IncludeDirs...), ";") + ";%(AdditionalIncludeDirectories)",
					PreprocessorDefinitions:      strings.Join(m.Defines, ";") + ";%(PreprocessorDefinitions)",
					AdditionalOptions:            msvcFlags(m.Cxxflags, "-EHsc", "-Zi"),
					ExceptionHandling:            "Sync",
					DebugInformationFormat:       "ProgramDatabase",
				},
				Link: VSLinkDef{
					SubSystem:                    "Console",
					GenerateDebugInformation:     &trueVal,
					AdditionalDependencies:       strings.Join(libs, ";") + ";%(AdditionalDependencies)",
					AdditionalLibraryDirectories: strings.Join(m.LibDirs, ";") + ";%(AdditionalLibraryDirectories)",
					ProgramDataBaseFile:          `$(OutDir)` + m.Name + ".pdb",
					AdditionalOptions:            msvcFlags(m.Lflags, "/DEBUG", "/PDB:"+m.Name+".pdb", "/DLL", "/NOLOGO"),
				},
				PostBuildEvent: &VSBuildEvent{
					Command: `if not exist "` + installDir + `" mkdir "` + installDir + `"` + "\r\n" +
						`copy /y "$(TargetPath)" "` + installDir + `\$(TargetFileName)"`,
				},
			},
		},
		Imports: []VSImport{
			{Project: `$(VCTargetsPath)\Microsoft.Cpp.Default.props`},
			{Project: `$(VCTargetsPath)\Microsoft.Cpp.props`},
			{Project: `$(VCTargetsPath)\Microsoft.Cpp.targets`},
		},
	}

	output, err := xml.MarshalIndent(project, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(output) + "\n", nil
}

func (g *VS2022Gen) GenerateParent(p *Parent) (string, error) {
	var sb strings.Builder

	writeln(&sb)
	writeln(&sb, "Microsoft Visual Studio Solution File, Format Version 12.00")
	writeln(&sb, "# Visual Studio Version 17")
	if p.Revision != "" {
		writeln(&sb, "# Source revision: ", p.Revision)
	}

	guids := make([]string, len(p.Modules))
	for i, m := range p.Modules {
		guids[i] = projectGuid(m)
		path := winPath(filepath.Join(m.Dir, g.ModuleFile(m)))
		// Windows (Visual C++) https://github.com/VISTALL/visual-studio-project-type-guids
		writeln(&sb, `Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "`, m.Name, `", "`, path, `", "{`, guids[i], `}"`)
		writeln(&sb, "EndProject")
	}

	if len(p.Installs) > 0 {
		// solution folder
		folder := strings.ToUpper(uuid.NewSHA1(uuid.NameSpaceURL, []byte("pyvoip:install")).String())
		writeln(&sb, `Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "install", "install", "{`, folder, `}"`)
		writeln(&sb, "\tProjectSection(SolutionItems) = preProject")
		for _, inst := range p.Installs {
			for _, file := range inst.Files {
				writeln(&sb, "\t\t", winPath(file), " = ", winPath(file))
			}
		}
		writeln(&sb, "\tEndProjectSection")
		writeln(&sb, "EndProject")
	}

	config := "Release|x64"
	if len(p.Modules) > 0 {
		config = p.Modules[0].configuration() + "|x64"
	}

	writeln(&sb, "Global")
	writeln(&sb, "\tGlobalSection(SolutionConfigurationPlatforms) = preSolution")
	writeln(&sb, "\t\t", config, " = ", config)
	writeln(&sb, "\tEndGlobalSection")
	writeln(&sb, "\tGlobalSection(ProjectConfigurationPlatforms) = postSolution")
	for _, guid := range guids {
		writeln(&sb, "\t\t{", guid, "}.", config, ".ActiveCfg = ", config)
		writeln(&sb, "\t\t{", guid, "}.", config, ".Build.0 = ", config)
	}
	writeln(&sb, "\tEndGlobalSection")
	writeln(&sb, "\tGlobalSection(SolutionProperties) = preSolution")
	writeln(&sb, "\t\tHideSolutionNode = FALSE")
	writeln(&sb, "\tEndGlobalSection")
	writeln(&sb, "EndGlobal")

	return sb.String(), nil
}
