package catalog

import "github.com/poiesic/briefing/core"

var bothSources = []core.SourceID{core.SourceMessageCenter, core.SourceLearn}

var defaultProducts = []core.Product{
	{ID: "azure", Name: "Azure", Family: "Azure", Sources: bothSources, Description: "Azure platform-wide updates"},
	{ID: "azure-ai", Name: "Azure AI Services", Family: "Azure", Sources: bothSources, Description: "Azure OpenAI, Cognitive Services, ML"},
	{ID: "azure-compute", Name: "Azure Compute", Family: "Azure", Sources: bothSources, Description: "VM, App Service, Functions, AKS"},
	{ID: "azure-data", Name: "Azure Data & Storage", Family: "Azure", Sources: bothSources, Description: "SQL, Cosmos DB, Storage, Synapse"},
	{ID: "azure-networking", Name: "Azure Networking", Family: "Azure", Sources: bothSources, Description: "VNet, Load Balancer, Front Door, CDN"},
	{ID: "azure-security", Name: "Azure Security", Family: "Azure", Sources: bothSources, Description: "Defender, Key Vault, Sentinel"},

	{ID: "d365-fo", Name: "Dynamics 365 Finance & Operations", Family: "Dynamics 365", Sources: bothSources, Description: "Finance, SCM, Commerce, HR"},
	{ID: "d365-ce", Name: "Dynamics 365 Customer Engagement", Family: "Dynamics 365", Sources: bothSources, Description: "Sales, Customer Service, Field Service"},
	{ID: "d365-bc", Name: "Dynamics 365 Business Central", Family: "Dynamics 365", Sources: bothSources, Description: "ERP for small and midsize businesses"},
	{ID: "d365-ci", Name: "Dynamics 365 Customer Insights", Family: "Dynamics 365", Sources: bothSources, Description: "Customer Insights - Data / Journeys"},

	{ID: "m365", Name: "Microsoft 365", Family: "Microsoft 365", Sources: bothSources, Description: "Microsoft 365 platform-wide updates"},
	{ID: "m365-teams", Name: "Microsoft Teams", Family: "Microsoft 365", Sources: bothSources, Description: "Teams apps and platform"},
	{ID: "m365-copilot", Name: "Microsoft 365 Copilot", Family: "Microsoft 365", Sources: bothSources, Description: "Copilot and AI features"},
	{ID: "m365-sharepoint", Name: "SharePoint & OneDrive", Family: "Microsoft 365", Sources: bothSources, Description: "SharePoint, OneDrive, Lists"},

	{ID: "power-platform", Name: "Power Platform", Family: "Power Platform", Sources: bothSources, Description: "Power Platform-wide updates"},
	{ID: "power-apps", Name: "Power Apps", Family: "Power Platform", Sources: bothSources, Description: "Canvas and model-driven apps"},
	{ID: "power-automate", Name: "Power Automate", Family: "Power Platform", Sources: bothSources, Description: "Flow automation"},
	{ID: "power-bi", Name: "Power BI", Family: "Power Platform", Sources: bothSources, Description: "BI and reporting"},
	{ID: "dataverse", Name: "Microsoft Dataverse", Family: "Power Platform", Sources: bothSources, Description: "Dataverse platform"},

	{ID: "security", Name: "Microsoft Security", Family: "Security", Sources: bothSources, Description: "Defender, Sentinel, Entra, Purview"},
	{ID: "entra", Name: "Microsoft Entra", Family: "Security", Sources: bothSources, Description: "Entra ID, External ID, Permissions"},
}
